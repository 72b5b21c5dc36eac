// Command avm2dump parses an SWF or raw ABC file and prints its module
// structure, or invokes a method/constructor inside it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	avm2 "github.com/saferwall/avm2"
	"github.com/saferwall/avm2/swf"
)

func main() {
	root := &cobra.Command{
		Use:   "avm2dump",
		Short: "Inspect and run AVM2 ABC modules embedded in SWF files",
	}
	root.AddCommand(newDumpCmd())
	root.AddCommand(newCallCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadModule(path string) (*avm2.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if swf.Sniff(data) {
		file, err := swf.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("swf: %w", err)
		}
		tag, err := file.FirstDoABC()
		if err != nil {
			return nil, err
		}
		return avm2.ParseModule(tag.ABCBody, &avm2.Options{})
	}
	return avm2.ParseModule(data, &avm2.Options{})
}

func newDumpCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print constant pool, class, and method summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModule(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("version: %d.%d\n", m.MajorVersion, m.MinorVersion)
			fmt.Printf("strings: %d  multinames: %d  methods: %d  classes: %d  scripts: %d\n",
				len(m.ConstantPool.Strings), len(m.ConstantPool.Multinames),
				len(m.Methods), len(m.Classes), len(m.Scripts))
			for i, anomaly := range m.Anomalies {
				fmt.Printf("anomaly[%d]: %s\n", i, anomaly)
			}
			if verbose {
				for i, inst := range m.Instances {
					name, _ := m.ConstantPool.QualifiedName(m.ConstantPool.Multinames[inst.Name])
					fmt.Printf("class[%d]: %s (%d traits)\n", i, name, len(inst.Traits))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every class")
	return cmd
}

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <file> <qualified-class-name>",
		Short: "Construct an instance of the named class and report its handle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModule(args[0])
			if err != nil {
				return err
			}
			vm, err := avm2.NewVM(m, &avm2.Options{})
			if err != nil {
				return err
			}
			if _, err := vm.CallEntryPoint(); err != nil {
				return fmt.Errorf("entry point: %w", err)
			}
			result, err := vm.NewInstanceByName(args[1], nil)
			if err != nil {
				return err
			}
			fmt.Println(result.String())
			return nil
		},
	}
	return cmd
}
