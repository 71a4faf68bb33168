package openapi_test

import (
	"context"
	"path/filepath"
	"testing"

	suggest "github.com/goliatone/go-suggest"
	"github.com/goliatone/go-suggest/pkg/testsupport"
)

func TestParser_Models_Library(t *testing.T) {
	ctx := context.Background()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "library.yaml"))
	parser := suggest.NewParser()

	got, err := parser.Models(ctx, doc)
	if err != nil {
		t.Fatalf("models: %v", err)
	}

	goldenPath := filepath.Join("testdata", "library_models.golden.json")
	testsupport.WriteGolden(t, goldenPath, got)
	want := testsupport.MustLoadModels(t, goldenPath)

	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
