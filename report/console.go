package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/pipeline"
)

// ColorMode selects when the console reporter emits ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Console writes timestamped, colored progress lines.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	styles  *styleSet
	verbose bool
	now     func() time.Time
}

// NewConsole creates a Console writing to w. Stage events are only written
// when verbose is true.
func NewConsole(w io.Writer, theme Theme, mode ColorMode, verbose bool) *Console {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return &Console{w: w, styles: newStyleSet(r, theme), verbose: verbose, now: time.Now}
}

func (c *Console) PipelineStarted(bc *pipeline.BuildContext) {
	c.line(c.styles.infoBadge, "Adding %s to the build pipeline.", c.styles.path.Render(bc.ProjectFile))
}

func (c *Console) StageStarted(bc *pipeline.BuildContext, stage string) {
	if !c.verbose {
		return
	}
	c.line(c.styles.infoBadge, "%s", c.styles.dim.Render(fmt.Sprintf("%s → %s", bc.Name, stage)))
}

func (c *Console) PackageSucceeded(res builder.PackageResult) {
	for _, w := range res.Warnings {
		c.line(c.styles.warnBadge, "%s %s", c.styles.warning.Render("Warning:"), w)
	}
	c.line(c.styles.successBadge, "Built %s. %s", c.styles.path.Render(res.ProjectFile), c.styles.dim.Render(res.Duration.Round(time.Millisecond).String()))
}

func (c *Console) PackageFailed(res builder.PackageResult) {
	c.line(c.styles.errorBadge, "%s %s.", c.styles.errorHead.Render("Error building"), c.styles.path.Bold(true).Render(res.ProjectFile))
	c.line(c.styles.errorBadge, "%s %s", c.styles.errorHead.Render("Error:"), c.styles.errorText.Render(res.Err.Error()))
}

func (c *Console) RunFinished(r *builder.Report) {
	failed := len(r.Failed())
	badge := c.styles.successBadge
	if failed > 0 {
		badge = c.styles.errorBadge
	}
	msg := fmt.Sprintf("%d built, %d failed", len(r.Results)-failed, failed)
	if r.Version != "" {
		msg += " (version " + r.Version + ")"
	}
	c.line(badge, "%s.", msg)
}

func (c *Console) line(badge lipgloss.Style, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.styles.time.Render("[" + c.now().Format("15:04:05") + "]")
	fmt.Fprintf(c.w, "%s %s %s\n", ts, badge.Render(" "), fmt.Sprintf(format, args...))
}
