package routes

import "testing"

func TestPostPaths(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{PostDetail(42), "/post/42"},
		{PostUpdate(42), "/post/42/update"},
		{PostDelete(42), "/post/42/delete"},
		{LoginNext(""), "/login"},
		{LoginNext("/post/new"), "/login?next=%2Fpost%2Fnew"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
