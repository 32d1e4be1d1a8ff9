package feedback

import "testing"

func TestCommentInputValidate(t *testing.T) {
	valid := CommentInput{
		Author:  "Ada",
		Email:   "ada@example.com",
		Content: "Really enjoyed browsing the projects section.",
		Rating:  5,
	}

	tests := []struct {
		name    string
		mutate  func(*CommentInput)
		wantErr string
	}{
		{
			name:   "valid input",
			mutate: func(in *CommentInput) {},
		},
		{
			name:    "content too short",
			mutate:  func(in *CommentInput) { in.Content = "short" },
			wantErr: "Content must be at least 10 characters long",
		},
		{
			name:    "whitespace does not count toward length",
			mutate:  func(in *CommentInput) { in.Content = "   hi        " },
			wantErr: "Content must be at least 10 characters long",
		},
		{
			name:    "rating zero",
			mutate:  func(in *CommentInput) { in.Rating = 0 },
			wantErr: "Rating must be between 1 and 5",
		},
		{
			name:    "rating six",
			mutate:  func(in *CommentInput) { in.Rating = 6 },
			wantErr: "Rating must be between 1 and 5",
		},
		{
			name:    "missing author when not anonymous",
			mutate:  func(in *CommentInput) { in.Author = "" },
			wantErr: "Name and email are required unless posting anonymously",
		},
		{
			name:    "missing email when not anonymous",
			mutate:  func(in *CommentInput) { in.Email = "" },
			wantErr: "Name and email are required unless posting anonymously",
		},
		{
			name:    "malformed email",
			mutate:  func(in *CommentInput) { in.Email = "not-an-email" },
			wantErr: "A valid email address is required",
		},
		{
			name: "anonymous needs no identity",
			mutate: func(in *CommentInput) {
				in.IsAnonymous = true
				in.Author = ""
				in.Email = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate() = nil, want %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("validate() = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSuggestionInputValidate(t *testing.T) {
	valid := SuggestionInput{
		Title:       "Add a dark mode",
		Description: "A dark theme would make late-night reading much easier.",
		Author:      "Ada",
		Email:       "ada@example.com",
	}

	tests := []struct {
		name    string
		mutate  func(*SuggestionInput)
		wantErr string
	}{
		{
			name:   "valid input",
			mutate: func(in *SuggestionInput) {},
		},
		{
			name:    "title too short",
			mutate:  func(in *SuggestionInput) { in.Title = "Hey" },
			wantErr: "Title must be at least 5 characters long",
		},
		{
			name:    "description too short",
			mutate:  func(in *SuggestionInput) { in.Description = "too short" },
			wantErr: "Description must be at least 20 characters long",
		},
		{
			name:    "missing identity when not anonymous",
			mutate:  func(in *SuggestionInput) { in.Author = ""; in.Email = "" },
			wantErr: "Name and email are required unless posting anonymously",
		},
		{
			name: "anonymous needs no identity",
			mutate: func(in *SuggestionInput) {
				in.IsAnonymous = true
				in.Author = ""
				in.Email = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"feedback", "feedback"},
		{"Suggestion", "suggestion"},
		{"  general ", "general"},
		{"", "general"},
		{"spam", "general"},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.in); got != tt.want {
			t.Errorf("normalizeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
