package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"tsresolve"
)

var Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "tsresolve",
	Short: "Resolve JavaScript/TypeScript import specifiers to files on disk",
	Long: `Resolves module specifiers following Node.js module-resolution semantics
extended with tsconfig.json path mapping (compilerOptions.paths, baseUrl)
and package.json exports maps.`,
	Version: Version,
}

var docsCmd = &cobra.Command{
	Use:   "doc-gen",
	Short: "Generate CLI documentation",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := doc.GenMarkdownTree(rootCmd, "./docs")
		if err != nil {
			log.Fatal(err)
		}
		return nil
	},
}

// ---------------- resolve ----------------

var (
	resolveFrom     string
	resolveTsconfig string
	resolveJSON     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>...",
	Short: "Resolve module specifiers to file paths",
	Long: `Resolve one or more import specifiers the way a build tool would:
Node file/directory/node_modules resolution, the @types/ typings fallback
and tsconfig path aliases, in that order.`,
	Example: "tsresolve resolve @app/util --from /proj/src/main.ts --tsconfig ./tsconfig.json",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := tsresolve.NewResolveManager()

		unresolved := 0
		for _, specifier := range args {
			result := manager.Resolve(specifier, resolveFrom, resolveTsconfig)
			if !result.Found {
				unresolved++
			}

			if resolveJSON {
				line, _ := json.Marshal(result)
				fmt.Println(string(line))
				continue
			}
			if result.Found {
				fmt.Printf("%s -> %s\n", specifier, result.Path)
			} else {
				color.Yellow("%s could not be resolved", specifier)
			}
		}

		if unresolved > 0 {
			os.Exit(1)
		}
		return nil
	},
}

// ---------------- packages ----------------

var (
	packagesCwd     string
	packagesInclude []string
	packagesExclude []string
	packagesCount   bool
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List packages installed in reachable node_modules directories",
	Long: `Scan node_modules directories from the working directory up through its
ancestors and list the installed packages with their versions. When a package
is installed at several levels, the entry nearest to the working directory
wins, matching Node's shadowing.`,
	Example: "tsresolve packages --include '@types/*' --exclude '@types/node'",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := tsresolve.ResolveAbsoluteCwd(packagesCwd)
		packages := tsresolve.ListInstalledPackages(cwd)
		packages = tsresolve.FilterPackages(packages, packagesInclude, packagesExclude)

		if packagesCount {
			fmt.Println(len(packages))
			return nil
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, pkg := range packages {
			fmt.Fprintf(writer, "%s\t%s\t%s\n", pkg.Name, pkg.Version, pkg.Path)
		}
		return writer.Flush()
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFrom, "from", "f", "",
		"Absolute path of the importing file (default: resolve against the tsconfig base directory)")
	resolveCmd.Flags().StringVar(&resolveTsconfig, "tsconfig", "tsconfig.json",
		"Path to tsconfig.json or to a directory containing it")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false,
		"Print one JSON result per specifier")

	packagesCmd.Flags().StringVarP(&packagesCwd, "cwd", "c", ".",
		"Directory to scan from")
	packagesCmd.Flags().StringSliceVar(&packagesInclude, "include", nil,
		"Glob patterns of package names to include")
	packagesCmd.Flags().StringSliceVar(&packagesExclude, "exclude", nil,
		"Glob patterns of package names to exclude")
	packagesCmd.Flags().BoolVar(&packagesCount, "count", false,
		"Print only the number of packages")

	rootCmd.AddCommand(resolveCmd, packagesCmd, docsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
