/*
Package cli provides the helpers shared by the roundtable command.

Output:

Commands print either human-readable text or JSON. A Printer carries the
chosen format and colors status lines when writing to a terminal:

	p := cli.NewPrinter(os.Stdout, cli.FormatJSON)
	if err := p.Print(allocation); err != nil {
		return err
	}
	p.Success("configuration valid")

Errors:

ConfigError and CommandError wrap failures with the field or command that
produced them. ExitCode maps an error to the process exit status.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
