package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/docket/internal/classifier"
	"github.com/JaimeStill/docket/internal/taxonomy"
)

// scriptedClient returns each response in sequence, then repeats the last.
type scriptedClient struct {
	responses []string
	err       error
	calls     int
}

func (c *scriptedClient) Complete(ctx context.Context, system, user string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	i := c.calls - 1
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	return c.responses[i], nil
}

const validResponse = `{
	"category": "Contract",
	"subcategory": "Lease Agreement",
	"summary": "A commercial lease between two named parties for office space.",
	"key_themes": [
		"Five year term with a renewal option",
		"Monthly rent with annual escalation",
		"Tenant responsible for utilities and maintenance"
	]
}`

const invalidPairResponse = `{
	"category": "Contract",
	"subcategory": "Complaint",
	"summary": "A pleading that opens a civil action against a vendor.",
	"key_themes": [
		"Breach of contract claims against a vendor",
		"Damages sought for late delivery",
		"Jury trial demanded"
	]
}`

func testClassifier(t *testing.T, client classifier.Client) *classifier.Classifier {
	t.Helper()
	tax, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return classifier.New(client, tax, logger)
}

func TestClassifyValidFirstAttempt(t *testing.T) {
	client := &scriptedClient{responses: []string{validResponse}}
	c := testClassifier(t, client)

	result, err := c.Classify(context.Background(), "lease text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "Contract" || result.Subcategory != "Lease Agreement" {
		t.Errorf("got %s/%s", result.Category, result.Subcategory)
	}
	if result.Fallback {
		t.Error("fallback set on a valid first attempt")
	}
	if client.calls != 1 {
		t.Errorf("model calls: got %d, want 1", client.calls)
	}
	if len(result.KeyThemes) != 3 {
		t.Errorf("key themes: got %d, want 3", len(result.KeyThemes))
	}
}

func TestClassifyRetryThenValid(t *testing.T) {
	client := &scriptedClient{responses: []string{invalidPairResponse, validResponse}}
	c := testClassifier(t, client)

	result, err := c.Classify(context.Background(), "lease text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "Contract" || result.Subcategory != "Lease Agreement" {
		t.Errorf("got %s/%s", result.Category, result.Subcategory)
	}
	if result.Fallback {
		t.Error("fallback set on a valid retry")
	}
	if client.calls != 2 {
		t.Errorf("model calls: got %d, want 2", client.calls)
	}
}

func TestClassifyFallbackPreservesContent(t *testing.T) {
	client := &scriptedClient{responses: []string{invalidPairResponse, invalidPairResponse}}
	c := testClassifier(t, client)

	result, err := c.Classify(context.Background(), "ambiguous text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != taxonomy.CatchallCategory || result.Subcategory != taxonomy.CatchallSubcategory {
		t.Errorf("got %s/%s, want catch-all", result.Category, result.Subcategory)
	}
	if !result.Fallback {
		t.Error("fallback flag not set")
	}
	if result.Summary != "A pleading that opens a civil action against a vendor." {
		t.Errorf("summary not preserved: got %q", result.Summary)
	}
	if len(result.KeyThemes) != 3 || result.KeyThemes[0] != "Breach of contract claims against a vendor" {
		t.Errorf("key themes not preserved: got %v", result.KeyThemes)
	}
	if client.calls != 2 {
		t.Errorf("model calls: got %d, want 2", client.calls)
	}
}

func TestClassifyParsesFencedOutput(t *testing.T) {
	client := &scriptedClient{responses: []string{"```json\n" + validResponse + "\n```"}}
	c := testClassifier(t, client)

	result, err := c.Classify(context.Background(), "lease text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "Contract" {
		t.Errorf("category: got %q", result.Category)
	}
}

func TestClassifyRepairsRunTogetherFields(t *testing.T) {
	damaged := `{
	"category": "Contract"
	"subcategory": "Lease Agreement"
	"summary": "A commercial lease between two named parties."
	"key_themes": ["Five year term", "Monthly rent schedule", "Maintenance obligations"]
}`
	client := &scriptedClient{responses: []string{damaged}}
	c := testClassifier(t, client)

	result, err := c.Classify(context.Background(), "lease text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Subcategory != "Lease Agreement" {
		t.Errorf("subcategory: got %q", result.Subcategory)
	}
}

func TestClassifyUnparseableOutput(t *testing.T) {
	client := &scriptedClient{responses: []string{"I believe this document is a contract."}}
	c := testClassifier(t, client)

	_, err := c.Classify(context.Background(), "lease text")
	if !errors.Is(err, classifier.ErrClassification) {
		t.Errorf("got %v, want ErrClassification", err)
	}
}

func TestClassifyShapeViolations(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{
			"missing summary",
			`{"category": "Contract", "subcategory": "Lease Agreement", "key_themes": ["a b c d e", "f g h i j", "k l m n o"]}`,
		},
		{
			"two themes",
			`{"category": "Contract", "subcategory": "Lease Agreement", "summary": "A lease.", "key_themes": ["a b c", "d e f"]}`,
		},
		{
			"four themes",
			`{"category": "Contract", "subcategory": "Lease Agreement", "summary": "A lease.", "key_themes": ["a", "b", "c", "d"]}`,
		},
		{
			"empty category",
			`{"category": "", "subcategory": "Lease Agreement", "summary": "A lease.", "key_themes": ["a", "b", "c"]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedClient{responses: []string{tc.response}}
			c := testClassifier(t, client)

			_, err := c.Classify(context.Background(), "text")
			if !errors.Is(err, classifier.ErrClassification) {
				t.Errorf("got %v, want ErrClassification", err)
			}
		})
	}
}

func TestClassifyModelFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}
	c := testClassifier(t, client)

	_, err := c.Classify(context.Background(), "text")
	if !errors.Is(err, classifier.ErrClassification) {
		t.Errorf("got %v, want ErrClassification", err)
	}
}
