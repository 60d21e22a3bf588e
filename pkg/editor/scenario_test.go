package editor_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/testsupport"
)

func TestScenarioGoldens(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.actions.json"))
	if err != nil {
		t.Fatalf("glob scenarios: %v", err)
	}
	if len(scripts) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, script := range scripts {
		name := filepath.Base(script)
		name = name[:len(name)-len(".actions.json")]
		golden := filepath.Join("testdata", "scenarios", name+".export.golden.json")

		t.Run(name, func(t *testing.T) {
			session, err := editor.New().Apply(testsupport.LoadActions(t, script)...)
			if err != nil {
				t.Fatalf("apply %s: %v", script, err)
			}
			exported := session.Export()
			testsupport.WriteGolden(t, golden, exported)

			if diff := testsupport.CompareGolden(t, golden, exported); diff != "" {
				t.Fatalf("export mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScenarioExportReimports(t *testing.T) {
	golden := filepath.Join("testdata", "scenarios", "contact.export.golden.json")
	ex := testsupport.MustLoadExchange(t, golden)

	session := editor.New().Import(ex)
	if got := session.ActiveDefinition(); got != "Root" {
		t.Fatalf("expected Root to be active, got %q", got)
	}
	if diff := cmp.Diff(testsupport.Normalize(t, ex), testsupport.Normalize(t, session.Export())); diff != "" {
		t.Fatalf("re-export mismatch (-want +got):\n%s", diff)
	}
}
