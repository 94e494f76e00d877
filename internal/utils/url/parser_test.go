package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://letterboxd.com",
		"https://letterboxd.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://letterboxd.com", "//letterboxd.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://letterboxd.com", "/film/x/", "https://letterboxd.com/film/x/"},
		{"https://letterboxd.com/", "/film/x/", "https://letterboxd.com/film/x/"},
		{"https://letterboxd.com", "https://other.example/film/y/", "https://other.example/film/y/"},
		{"https://letterboxd.com", " /film/z/ ", "https://letterboxd.com/film/z/"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	got := JoinPath("https://letterboxd.com/", "alice", "films", "", "genre/horror", "page/2")
	want := "https://letterboxd.com/alice/films/genre/horror/page/2/"
	if got != want {
		t.Errorf("JoinPath = %q, want %q", got, want)
	}
}
