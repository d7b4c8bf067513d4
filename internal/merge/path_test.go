package merge

import "testing"

func TestParsePath(t *testing.T) {
	cases := []struct {
		name string
		path string
		want []Segment
	}{
		{
			name: "dot notation",
			path: "a.b.c",
			want: []Segment{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		},
		{
			name: "bracket quoted key",
			path: `a["b.c"]`,
			want: []Segment{{Key: "a"}, {Key: "b.c"}},
		},
		{
			name: "bracket single-quoted key",
			path: `a['b.c']`,
			want: []Segment{{Key: "a"}, {Key: "b.c"}},
		},
		{
			name: "array index",
			path: "items[3]",
			want: []Segment{{Key: "items"}, {IsIndex: true, Index: 3}},
		},
		{
			name: "escaped dot in plain segment",
			path: `a\.b.c`,
			want: []Segment{{Key: "a.b"}, {Key: "c"}},
		},
		{
			name: "mixed forms",
			path: `spec.containers[0]["name"]`,
			want: []Segment{{Key: "spec"}, {Key: "containers"}, {IsIndex: true, Index: 0}, {Key: "name"}},
		},
		{
			name: "empty path means whole document",
			path: "",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePath(tc.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tc.path, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("ParsePath(%q) = %#v, want %#v", tc.path, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("ParsePath(%q)[%d] = %#v, want %#v", tc.path, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParsePathUnterminatedBracket(t *testing.T) {
	if _, err := ParsePath("a[0"); err == nil {
		t.Fatal("expected error for unterminated bracket")
	}
	if _, err := ParsePath(`a["b`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}
