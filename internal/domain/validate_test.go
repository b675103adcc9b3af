package domain

import (
	"errors"
	"strings"
	"testing"
)

func validPayload() SaucePayload {
	return SaucePayload{
		Name:         "Sriracha",
		Manufacturer: "Huy Fong",
		Description:  "Spicy",
		MainPepper:   "chili",
	}
}

func TestValidateSauce(t *testing.T) {
	accepted := []func(p *SaucePayload){
		func(p *SaucePayload) {},
		func(p *SaucePayload) { p.Description = "Piquante, sucrée et fumée !" },
		func(p *SaucePayload) { p.Name = "Œuf_brûlé-3?" },
		func(p *SaucePayload) { p.MainPepper = strings.Repeat("é", 150) },
		func(p *SaucePayload) { p.Name = "Hot\u00a0Sauce" },
		func(p *SaucePayload) { p.Manufacturer = "Huy\u3000Fong\u202fFoods" },
		func(p *SaucePayload) { p.Description = "line\vbreak\u2028done" },
	}
	for i, mutate := range accepted {
		p := validPayload()
		mutate(&p)
		if err := ValidateSauce(p); err != nil {
			t.Fatalf("case %d: expected valid payload, got %v", i, err)
		}
	}

	tests := []struct {
		name   string
		field  string
		mutate func(p *SaucePayload)
	}{
		{"empty name", "name", func(p *SaucePayload) { p.Name = "" }},
		{"short manufacturer", "manufacturer", func(p *SaucePayload) { p.Manufacturer = "ab" }},
		{"long description", "description", func(p *SaucePayload) { p.Description = strings.Repeat("a", 151) }},
		{"markup in pepper", "mainPepper", func(p *SaucePayload) { p.MainPepper = "<script>" }},
		{"dollar in name", "name", func(p *SaucePayload) { p.Name = "hot$auce" }},
		{"zero width space", "name", func(p *SaucePayload) { p.Name = "Hot\u200bSauce" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := ValidateSauce(p)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %s got %s", tt.field, verr.Field)
			}
		})
	}
}

func TestImageFilename(t *testing.T) {
	url := ImageURL("http://localhost:3000/", "sauce_1.jpg")
	if url != "http://localhost:3000/images/sauce_1.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
	name, ok := ImageFilename(url)
	if !ok || name != "sauce_1.jpg" {
		t.Fatalf("expected sauce_1.jpg got %q", name)
	}
	if _, ok := ImageFilename("http://localhost:3000/static/x.jpg"); ok {
		t.Fatalf("expected no filename outside the images path")
	}
}
