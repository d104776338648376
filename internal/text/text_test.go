package text

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

func sampleRecord() domain.Record {
	p, a, b := domain.DemoTwin()
	return domain.Record{
		ID:        "3f2a-demo",
		Timestamp: 1_760_000_000_000,
		Profile:   p,
		ScenarioA: a,
		ScenarioB: b,
		Results: domain.Result{
			ScenarioA:           domain.Outcome{Title: a.Title, SkillGrowth: 62, ValueAlignment: 48, FutureOptionality: 71, FrictionIndicator: 35, NarrativeSnapshot: "Well funded, little say."},
			ScenarioB:           domain.Outcome{Title: b.Title, SkillGrowth: 88, ValueAlignment: 83, FutureOptionality: 57, FrictionIndicator: 78, NarrativeSnapshot: "Fast growth, funding risk."},
			ScenarioC:           domain.Outcome{Title: "Optimal Convergence", SkillGrowth: 80, ValueAlignment: 79, FutureOptionality: 76, FrictionIndicator: 46, NarrativeSnapshot: "Lab role with a side venture."},
			ComparativeAnalysis: "Beta maximises growth; C keeps most of it.",
			TradeOffs: []domain.TradeOff{
				{Label: "Financial stability", PathAValue: 90, PathBValue: 25, PathCValue: 70},
				{Label: "Agency | ownership", PathAValue: 30, PathBValue: 95, PathCValue: 68},
			},
		},
	}
}

func TestAxesOrderAndResistance(t *testing.T) {
	want := []string{"Skill Growth", "Value Align", "Optionality", "Resistance"}
	if len(Axes) != len(want) {
		t.Fatalf("got %d axes, want %d", len(Axes), len(want))
	}
	for i, ax := range Axes {
		if ax.Label != want[i] {
			t.Fatalf("axis %d = %q, want %q", i, ax.Label, want[i])
		}
	}
	o := domain.Outcome{FrictionIndicator: 78}
	if got := Axes[3].Value(o); got != 22 {
		t.Fatalf("resistance = %v, want 22", got)
	}
	if got := Resistance(domain.Outcome{FrictionIndicator: -5}); got != 100 {
		t.Fatalf("resistance should clamp to 100, got %v", got)
	}
}

func TestRecordMarkdown(t *testing.T) {
	md := RecordMarkdown(sampleRecord())
	for _, want := range []string{
		"# HUMANOS Decision Report",
		"Alex Chen, Bio-Systems Engineering",
		"## Comparative Analysis",
		"| Path C | Optimal Convergence | 80 | 79 | 76 | 46 |",
		"### Path Beta: Eco-Tech Seed Startup",
		"| Financial stability | 90 | 25 | 70 |",
		"| Agency / ownership | 30 | 95 | 68 |",
		"Record `3f2a-demo`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestRenderNoTTY(t *testing.T) {
	out := Render("# Title\n\nbody", 60, "notty")
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body") {
		t.Fatalf("unexpected render output %q", out)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleRecord()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	rec := sampleRecord()
	for _, f := range []Format{FormatMarkdown, FormatPDF} {
		path, err := Export(rec, dir, f)
		if err != nil {
			t.Fatalf("Export(%s): %v", f, err)
		}
		if filepath.Base(path) != "humanos_3f2a-demo."+string(f) {
			t.Fatalf("unexpected file name %s", path)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "markdown": FormatMarkdown, " pdf ": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatal("expected error for docx")
	}
	if got := fileSafe("../x y"); got != "___x_y" {
		t.Fatalf("fileSafe = %q", got)
	}
}
