package main

import (
	"github.com/spf13/cobra"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/export"
	"github.com/c360studio/brickshape/ontology"
)

// classQuery runs one query against a loaded ontology.
type classQuery func(o *ontology.Ontology, class curie.Text) (any, error)

func queryCommands(f *flags) []*cobra.Command {
	return []*cobra.Command{
		classCmd(f, "describe", "Describe a class: label, definition, superclasses, tags and property shapes",
			func(o *ontology.Ontology, class curie.Text) (any, error) { return o.Lookup(class) }),
		classCmd(f, "subclasses", "List the direct subclasses of a class",
			func(o *ontology.Ontology, class curie.Text) (any, error) { return o.SubclassesOf(class) }),
		classCmd(f, "superclasses", "List the direct superclasses of a class",
			func(o *ontology.Ontology, class curie.Text) (any, error) { return o.SuperclassesOf(class) }),
		classCmd(f, "tags", "List the tags associated with a class",
			func(o *ontology.Ontology, class curie.Text) (any, error) { return o.TagsOf(class) }),
		classCmd(f, "properties", "List the property shapes a class declares",
			func(o *ontology.Ontology, class curie.Text) (any, error) {
				props, err := o.PropertiesOf(class)
				if err != nil {
					return nil, err
				}
				c, err := class.ToCurie()
				if err != nil {
					return nil, err
				}
				return export.ClassProperties{Class: c, Properties: props}, nil
			}),
		{
			Use:   "classes",
			Short: "List every class in the ontology",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runQuery(cmd, f, func(o *ontology.Ontology) (any, error) { return o.Classes() })
			},
		},
	}
}

func classCmd(f *flags, name, short string, q classQuery) *cobra.Command {
	return &cobra.Command{
		Use:     name + " CLASS",
		Short:   short,
		Example: "  " + appName + " " + name + " brick:Air_Handling_Unit -s Brick.ttl",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class := curie.Text(args[0])
			return runQuery(cmd, f, func(o *ontology.Ontology) (any, error) { return q(o, class) })
		},
	}
}

// runQuery loads the ontology, runs q and writes the result in the requested format.
func runQuery(cmd *cobra.Command, f *flags, q func(o *ontology.Ontology) (any, error)) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(f)
	if err != nil {
		return err
	}

	o, err := buildOntology(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}

	result, err := q(o)
	if err != nil {
		return err
	}
	return export.NewExporter(o.Registry()).Write(cmd.OutOrStdout(), format, result)
}
