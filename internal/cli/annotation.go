package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/annotate/internal/ports/primary"
)

const (
	flagService     = "service"
	flagIndex       = "index"
	flagJSON        = "json"
	flagContentOnly = "content-only"

	// interactiveIndex is the --index value that asks for the annotation.
	interactiveIndex = -1
)

func addServiceFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagService, "s", "", "service name (asks when omitted)")
}

func addIndexFlag(cmd *cobra.Command) {
	cmd.Flags().IntP(flagIndex, "i", interactiveIndex, "annotation index (asks when omitted)")
}

func serviceRef(cmd *cobra.Command) primary.ServiceRef {
	service, _ := cmd.Flags().GetString(flagService)
	return primary.ServiceRef{Service: service}
}

func annotationRef(cmd *cobra.Command) primary.AnnotationRef {
	ref := primary.AnnotationRef{Service: serviceRef(cmd).Service}
	if idx, _ := cmd.Flags().GetInt(flagIndex); cmd.Flags().Changed(flagIndex) && idx != interactiveIndex {
		ref.Index = &idx
	}
	return ref
}

func (a *App) servicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the services that can be annotated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool(flagJSON)
			return a.container.Adapter.Services(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().Bool(flagJSON, false, "output as json")
	return cmd
}

func (a *App) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List service annotations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool(flagJSON)
			return a.container.Adapter.List(cmd.Context(), serviceRef(cmd).Service, asJSON)
		},
	}
	addServiceFlag(cmd)
	cmd.Flags().Bool(flagJSON, false, "output as json")
	return cmd
}

func (a *App) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat", "get"},
		Short:   "Show a single annotation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool(flagJSON)
			contentOnly, _ := cmd.Flags().GetBool(flagContentOnly)
			return a.container.Adapter.Show(cmd.Context(), annotationRef(cmd), contentOnly, asJSON)
		},
	}
	addServiceFlag(cmd)
	addIndexFlag(cmd)
	cmd.Flags().Bool(flagContentOnly, false, "show content only")
	cmd.Flags().Bool(flagJSON, false, "output as json")
	return cmd
}

func (a *App) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new annotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.container.Adapter.Add(cmd.Context(), serviceRef(cmd).Service)
		},
	}
	addServiceFlag(cmd)
	return cmd
}

func (a *App) updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an annotation's placement, size and alignment",
		Long: `Update an annotation's placement, size and alignment.

Every prompt offers the current value as its default. The content is kept;
use set-content to change it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.container.Adapter.Update(cmd.Context(), annotationRef(cmd))
		},
	}
	addServiceFlag(cmd)
	addIndexFlag(cmd)
	return cmd
}

func (a *App) setContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set-content [file]",
		Aliases: []string{"set"},
		Short:   "Set an annotation's content",
		Long: `Set an annotation's content from a file, from standard input ("-"),
or, without a file, from lines typed at the prompt. End a typed line with
a backslash or two spaces to continue on the next line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return a.container.Adapter.SetContent(cmd.Context(), annotationRef(cmd), path)
		},
	}
	addServiceFlag(cmd)
	addIndexFlag(cmd)
	return cmd
}

func (a *App) replaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace an annotation with one typed as JSON",
		Long: `Replace an annotation with a record typed as JSON, for example:

  {"position":1,"target":"Filter","left":0,"top":0,"width":200,"align":"left","content":"note"}

End a line with a backslash or two spaces to continue on the next line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.container.Adapter.Replace(cmd.Context(), annotationRef(cmd))
		},
	}
	addServiceFlag(cmd)
	addIndexFlag(cmd)
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Remove an annotation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.container.Adapter.Delete(cmd.Context(), annotationRef(cmd))
		},
	}
	addServiceFlag(cmd)
	addIndexFlag(cmd)
	return cmd
}

func (a *App) clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all annotations of a service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.container.Adapter.Clear(cmd.Context(), serviceRef(cmd).Service)
		},
	}
	addServiceFlag(cmd)
	return cmd
}
