package ingest

import (
	"reflect"
	"testing"
)

func TestParseRList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"na", "NA", nil},
		{"character zero", "character(0)", nil},
		{"bare string", `blue cheese`, []string{"blue cheese"}},
		{"bare quoted", `"blue cheese"`, []string{"blue cheese"}},
		{"simple list", `c("flour", "sugar", "eggs")`, []string{"flour", "sugar", "eggs"}},
		{"single quotes", `c('flour', 'sugar')`, []string{"flour", "sugar"}},
		{"embedded comma", `c("salt, to taste", "pepper")`, []string{"salt, to taste", "pepper"}},
		{"escaped quote", `c("sun\"dried tomatoes", "basil")`, []string{`sun"dried tomatoes`, "basil"}},
		{"empty list", `c()`, nil},
		{"blank items dropped", `c("", "flour", "  ")`, []string{"flour"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRList(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseRList(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}
