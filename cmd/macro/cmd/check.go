package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	"github.com/msto63/fanucmacro/foundation/macro/ast"
	"github.com/msto63/fanucmacro/foundation/macro/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Check a macro program without running it",
	Long: `Parse FILE ("-" reads stdin) and report its statements and the
registers it references. Fails when the program does not parse or
references a register outside the configured range.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkReport summarizes a parsed program
type checkReport struct {
	Statements  int   `json:"statements" yaml:"statements"`
	Referenced  []int `json:"referenced" yaml:"referenced"`
	Assigned    []int `json:"assigned" yaml:"assigned"`
	OutOfRange  []int `json:"out_of_range" yaml:"out_of_range"`
	RegisterMin int   `json:"register_min" yaml:"register_min"`
	RegisterMax int   `json:"register_max" yaml:"register_max"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	prog, err := parser.New(parser.Options{Logger: logger}).Parse(source)
	if err != nil {
		return err
	}

	report := buildCheckReport(prog, appConfig.Registers.Min, appConfig.Registers.Max)

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, report); done {
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s: %d statement(s)\n", args[0], report.Statements)
		fmt.Fprintf(out, "  referenced: %s\n", formatRegisterList(report.Referenced))
		fmt.Fprintf(out, "  assigned:   %s\n", formatRegisterList(report.Assigned))
		if len(report.OutOfRange) > 0 {
			fmt.Fprintf(out, "  outside #%d..#%d: %s\n", report.RegisterMin, report.RegisterMax, formatRegisterList(report.OutOfRange))
		}
	}

	if len(report.OutOfRange) > 0 {
		return mdwerror.New(fmt.Sprintf("%d register(s) outside #%d..#%d",
			len(report.OutOfRange), report.RegisterMin, report.RegisterMax)).
			WithCode(mdwerror.CodeRegisterOutOfRange).
			WithOperation("cmd.check").
			WithDetail("registers", report.OutOfRange)
	}
	return nil
}

func buildCheckReport(prog *ast.Program, min, max int) checkReport {
	report := checkReport{
		Statements:  len(prog.Statements),
		Referenced:  ast.Registers(prog),
		Assigned:    ast.AssignedRegisters(prog),
		OutOfRange:  []int{},
		RegisterMin: min,
		RegisterMax: max,
	}
	for _, r := range report.Referenced {
		if r < min || r > max {
			report.OutOfRange = append(report.OutOfRange, r)
		}
	}
	return report
}

func formatRegisterList(registers []int) string {
	if len(registers) == 0 {
		return "none"
	}
	s := ""
	for i, r := range registers {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("#%d", r)
	}
	return s
}
