package httpapi

import "testing"

func TestShareLink(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "", want: "?match_id=a1b2c3d4"},
		{base: "https://nexus.example", want: "https://nexus.example/?match_id=a1b2c3d4"},
		{base: "https://nexus.example/", want: "https://nexus.example/?match_id=a1b2c3d4"},
		{base: "  https://nexus.example//  ", want: "https://nexus.example/?match_id=a1b2c3d4"},
	}
	for _, tc := range tests {
		if got := ShareLink(tc.base, "a1b2c3d4"); got != tc.want {
			t.Fatalf("ShareLink(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestRootLink(t *testing.T) {
	if got := RootLink(""); got != "/" {
		t.Fatalf("RootLink(\"\") = %q, want /", got)
	}
	if got := RootLink("https://nexus.example/"); got != "https://nexus.example/" {
		t.Fatalf("RootLink = %q", got)
	}
}
