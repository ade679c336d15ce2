package domain

import "testing"

func TestParseBrand(t *testing.T) {
	cases := []struct {
		in   string
		want Brand
		ok   bool
	}{
		{"Toyota", BrandToyota, true},
		{" mazda ", BrandMazda, true},
		{"CHEVROLET", BrandChevrolet, true},
		{"Lada", Brand("Lada"), false},
	}

	for _, c := range cases {
		got, ok := ParseBrand(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseBrand(%q) = %s, %v; want %s, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
