package pkg

import (
	"os"
	"slices"
	"strings"
	"testing"

	"golang.org/x/mod/semver"
)

func TestName(t *testing.T) {
	if Name != "quse" {
		t.Errorf("Expected Name to be %q, got %q", "quse", Name)
	}
}

func TestDescription(t *testing.T) {
	if strings.TrimSpace(Description) == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if !semver.IsValid("v" + Version) {
		t.Errorf("Version %q is not a valid semantic version", Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
