package scan

import "testing"

func TestNormalizeRejectsDenyListedAuthors(t *testing.T) {
	tests := []struct {
		name   string
		author string
	}{
		{name: "placeholder john doe", author: "John Doe"},
		{name: "placeholder jane doe", author: "jane doe"},
		{name: "lorem ipsum", author: "Lorem Ipsum Dolor"},
		{name: "unknown author placeholder", author: "Unknown Author"},
		{name: "not applicable", author: "N/A"},
		{name: "mis-attributed cover blurb", author: "New York Times Bestseller"},
		{name: "title fragment", author: "A Novel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(DefaultPolicy(), BookCandidate{
				Title:      "Some Title",
				Author:     tt.author,
				Confidence: ConfidenceHigh,
			})
			if ok {
				t.Errorf("Expected candidate with author %q to be rejected", tt.author)
			}
		})
	}
}

func TestNormalizeSwapsReversedFields(t *testing.T) {
	tests := []struct {
		name           string
		title, author  string
		wantTitle      string
		wantAuthor     string
	}{
		{
			name:       "name in title and title in author",
			title:      "Diana Gabaldon",
			author:     "Dragonfly in Amber",
			wantTitle:  "Dragonfly in Amber",
			wantAuthor: "Diana Gabaldon",
		},
		{
			name:       "name in title with much longer author field",
			title:      "Brandon Sanderson",
			author:     "Words Radiance Stormlight Archive",
			wantTitle:  "Words Radiance Stormlight Archive",
			wantAuthor: "Brandon Sanderson",
		},
		{
			name:       "correct orientation untouched",
			title:      "The Name of the Wind",
			author:     "Patrick Rothfuss",
			wantTitle:  "The Name of the Wind",
			wantAuthor: "Patrick Rothfuss",
		},
		{
			name:       "two short fields untouched",
			title:      "Dune Messiah",
			author:     "Frank Herbert",
			wantTitle:  "Dune Messiah",
			wantAuthor: "Frank Herbert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(DefaultPolicy(), BookCandidate{
				Title:      tt.title,
				Author:     tt.author,
				Confidence: ConfidenceHigh,
			})
			if !ok {
				t.Fatal("Candidate unexpectedly rejected")
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title: got %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Author != tt.wantAuthor {
				t.Errorf("Author: got %q, want %q", got.Author, tt.wantAuthor)
			}
		})
	}
}

func TestNormalizeCleansFields(t *testing.T) {
	tests := []struct {
		name          string
		title, author string
		wantTitle     string
		wantAuthor    string
	}{
		{
			name:       "publisher prefix stripped",
			title:      "Penguin Classics: Crime and Punishment",
			author:     "Fyodor Dostoevsky",
			wantTitle:  "Crime and Punishment",
			wantAuthor: "Fyodor Dostoevsky",
		},
		{
			name:       "volume marker stripped",
			title:      "The Wheel of Time Vol. 2",
			author:     "Robert Jordan",
			wantTitle:  "The Wheel of Time",
			wantAuthor: "Robert Jordan",
		},
		{
			name:       "series number stripped",
			title:      "The Expanse #3",
			author:     "James Corey",
			wantTitle:  "The Expanse",
			wantAuthor: "James Corey",
		},
		{
			name:       "honorific suffix stripped",
			title:      "The Anatomy of Hope",
			author:     "Jerome Groopman, M.D.",
			wantTitle:  "The Anatomy of Hope",
			wantAuthor: "Jerome Groopman",
		},
		{
			name:       "ocr confusion fixed",
			title:      "Tbe Grapes 0f Wrath",
			author:     "John Steinbeck",
			wantTitle:  "The Grapes of Wrath",
			wantAuthor: "John Steinbeck",
		},
		{
			name:       "whitespace trimmed",
			title:      "  Beloved  ",
			author:     " Toni Morrison ",
			wantTitle:  "Beloved",
			wantAuthor: "Toni Morrison",
		},
		{
			name:       "empty author becomes unknown",
			title:      "Anonymous Diary of a City",
			author:     "   ",
			wantTitle:  "Anonymous Diary of a City",
			wantAuthor: UnknownAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(DefaultPolicy(), BookCandidate{
				Title:      tt.title,
				Author:     tt.author,
				Confidence: ConfidenceHigh,
			})
			if !ok {
				t.Fatal("Candidate unexpectedly rejected")
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title: got %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Author != tt.wantAuthor {
				t.Errorf("Author: got %q, want %q", got.Author, tt.wantAuthor)
			}
		})
	}
}

func TestNormalizeRegradesConfidence(t *testing.T) {
	tests := []struct {
		name  string
		title string
		in    Confidence
		want  Confidence
	}{
		{name: "high with one-letter title drops to medium", title: "X", in: ConfidenceHigh, want: ConfidenceMedium},
		{name: "medium with two-letter title drops to low", title: "It", in: ConfidenceMedium, want: ConfidenceLow},
		{name: "high with real title survives", title: "The Stand", in: ConfidenceHigh, want: ConfidenceHigh},
		{name: "low stays low", title: "The Stand", in: ConfidenceLow, want: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(DefaultPolicy(), BookCandidate{
				Title:      tt.title,
				Author:     "Stephen King",
				Confidence: tt.in,
			})
			if !ok {
				t.Fatal("Candidate unexpectedly rejected")
			}
			if got.Confidence != tt.want {
				t.Errorf("Confidence: got %s, want %s", got.Confidence, tt.want)
			}
		})
	}
}

func TestLooksLikePersonName(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Diana Gabaldon", true},
		{"Ursula K. Le Guin", false}, // four tokens
		{"The Hobbit", false},        // function word
		{"Beloved", false},           // single token
		{"J.R.R. Tolkien", true},
	}

	for _, tt := range tests {
		if got := looksLikePersonName(tt.text); got != tt.want {
			t.Errorf("looksLikePersonName(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
