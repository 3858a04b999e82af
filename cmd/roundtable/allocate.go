package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/roundtable/pkg/cli"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/transcript"
)

var allocateFlags struct {
	text string
}

var classifyFlags struct {
	text string
}

var normalizeFlags struct {
	personas string
	intent   string
}

// allocationResult is the output of the allocate command.
type allocationResult struct {
	Personas   []string        `json:"personas"`
	Intent     intent.Intent   `json:"intent"`
	Total      int             `json:"total"`
	Plan       string          `json:"plan"`
	Quotas     map[string]int  `json:"quotas"`
	Omitted    []string        `json:"omitted,omitempty"`
	Providers  []gate.Provider `json:"providers,omitempty"`
	Deep       bool            `json:"deep"`
	CallCap    int             `json:"call_cap"`
	StaleCheck bool            `json:"stale_sensitive"`
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Show the turn allocation for a prompt",
	Long: `Resolve personas, classify the intent and allocate turns for a prompt.

The prompt is read from --text, or from stdin when --text is empty.

Examples:
  roundtable allocate --text "@CTO @DEV review the API latency"
  echo "@PM @MARKETING plan the launch" | roundtable allocate -o json`,
	RunE: runAllocate,
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Print the intent and per-category scores for a prompt",
	RunE:  runClassify,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize an assistant reply read from stdin",
	Long: `Rewrite a reply into numbered persona turns within the allocated quotas.

Examples:
  roundtable normalize --personas CTO,DEV --intent backend < reply.txt`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(allocateCmd, classifyCmd, normalizeCmd)

	allocateCmd.Flags().StringVarP(&allocateFlags.text, "text", "t", "", "prompt text (default: stdin)")
	classifyCmd.Flags().StringVarP(&classifyFlags.text, "text", "t", "", "prompt text (default: stdin)")

	normalizeCmd.Flags().StringVarP(&normalizeFlags.personas, "personas", "p", "", "comma-separated persona set, lead first")
	normalizeCmd.Flags().StringVarP(&normalizeFlags.intent, "intent", "i", string(intent.Mixed), "intent used for the allocation")
	normalizeCmd.MarkFlagRequired("personas")
}

func runAllocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildCore(cfg)
	if err != nil {
		return err
	}
	p, err := printer(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd, allocateFlags.text)
	if err != nil {
		return err
	}

	set := persona.Resolve(text)
	if set.Empty() {
		return fmt.Errorf("no personas found in prompt")
	}

	clean := persona.StripMarker(text)
	in := c.classifier.Classify(clean)
	alloc := c.allocator.Allocate(set, in)
	deep := gate.DeepInvestigation(clean)

	res := allocationResult{
		Personas:   set.Strings(),
		Intent:     in,
		Total:      alloc.Total(),
		Plan:       alloc.Plan(),
		Quotas:     make(map[string]int, set.Len()),
		Omitted:    alloc.Omitted().Strings(),
		Providers:  gate.Detect(clean),
		Deep:       deep,
		CallCap:    c.gate.Cap(deep),
		StaleCheck: gate.StaleSensitive(clean),
	}
	for _, per := range set {
		res.Quotas[string(per)] = alloc.Quota(per)
	}

	if p.Format() == cli.FormatJSON {
		return p.Print(res)
	}
	p.Heading("Allocation")
	p.Field("Personas", strings.Join(res.Personas, ", "))
	p.Field("Intent", res.Intent)
	p.Field("Total turns", res.Total)
	p.Field("Plan", res.Plan)
	if len(res.Omitted) > 0 {
		p.Field("Omitted", strings.Join(res.Omitted, ", "))
	}
	if len(res.Providers) > 0 {
		p.Field("Providers", strings.Join(gate.Strings(res.Providers), ", "))
	}
	p.Field("Call cap", res.CallCap)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildCore(cfg)
	if err != nil {
		return err
	}
	p, err := printer(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd, classifyFlags.text)
	if err != nil {
		return err
	}

	res := c.classifier.Evaluate(persona.StripMarker(text))
	if p.Format() == cli.FormatJSON {
		return p.Print(res)
	}
	p.Heading("Intent: %s", res.Intent)
	for _, in := range intent.Priority {
		p.Field(string(in), res.Scores[in])
	}
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildCore(cfg)
	if err != nil {
		return err
	}

	set := persona.NewSet(strings.Split(normalizeFlags.personas, ",")...)
	if set.Empty() {
		return fmt.Errorf("--personas names no known persona: %q", normalizeFlags.personas)
	}
	in, err := intent.Parse(normalizeFlags.intent)
	if err != nil {
		return err
	}

	text, err := readText(cmd, "")
	if err != nil {
		return err
	}

	out, report := transcript.NormalizeWithReport(text, set, c.allocator.Allocate(set, in))
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "outcome=%s parsed=%d kept=%d dropped=%d\n",
			report.Outcome, report.Parsed, report.Kept, report.Dropped)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// readText returns flagValue, or all of stdin when it is empty.
func readText(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
