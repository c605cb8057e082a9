package utils

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeFields(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return m
}

func TestExtractSpecs(t *testing.T) {
	fields := decodeFields(t, `{
		"brand": "Toyota",
		"year": 2015,
		"engine_size": 1.8,
		"negotiable": true,
		"mileage": null,
		"color": "",
		"Features": ["ABS", "Airbag"],
		"location": {"district": "Kampala", "area": "Ntinda"},
		"extras": []
	}`)

	got := ExtractSpecs(fields)
	want := []Spec{
		{Name: "Brand", Value: "Toyota"},
		{Name: "Engine size", Value: "1.8"},
		{Name: "Location", Value: "Ntinda, Kampala"},
		{Name: "Negotiable", Value: "Yes"},
		{Name: "Year", Value: "2015"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSpecs() = %+v, want %+v", got, want)
	}
}

func TestExtractSpecs_Empty(t *testing.T) {
	if got := ExtractSpecs(nil); len(got) != 0 {
		t.Errorf("ExtractSpecs(nil) = %v, want empty", got)
	}
}

func TestExtractFeatures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"数组", `{"features": ["ABS", " ", "Airbag"]}`, []string{"ABS", "Airbag"}},
		{"对象值", `{"FEATURES": {"2": "Sunroof", "1": "ABS"}}`, []string{"ABS", "Sunroof"}},
		{"勾选型", `{"features": {"ABS": true, "Airbag": false, "Turbo": true}}`, []string{"ABS", "Turbo"}},
		{"逗号字符串", `{"features": "ABS, Airbag,,"}`, []string{"ABS", "Airbag"}},
		{"缺失", `{"brand": "BMW"}`, []string{}},
		{"null", `{"features": null}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFeatures(decodeFields(t, tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractFeatures() = %v, want %v", got, tt.want)
			}
		})
	}
}
