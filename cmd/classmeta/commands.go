package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/classmeta/internal/output"
	"github.com/panbanda/classmeta/pkg/analyzer/hierarchy"
	"github.com/panbanda/classmeta/pkg/classmeta"
	"github.com/urfave/cli/v2"
)

func typesCmd() *cli.Command {
	return &cli.Command{
		Name:      "types",
		Aliases:   []string{"ls"},
		Usage:     "List analyzed classes with their merged counts",
		ArgsUsage: "[path...]",
		Action:    runTypesCmd,
	}
}

type typeView struct {
	Name            string   `json:"name"`
	Kind            string   `json:"kind"`
	Path            string   `json:"path,omitempty"`
	Supertypes      []string `json:"supertypes,omitempty"`
	External        []string `json:"external,omitempty"`
	Ancestors       int      `json:"ancestors"`
	InstanceMethods int      `json:"instance_methods"`
	Properties      int      `json:"properties"`
}

type typesView struct {
	Classes []typeView        `json:"classes"`
	Cycles  []string          `json:"cycles,omitempty"`
	Summary hierarchy.Summary `json:"summary"`
}

func runTypesCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	classes := s.model.Classes()
	if len(classes) == 0 {
		color.Yellow("No Java classes found")
		return nil
	}

	view := typesView{Summary: s.model.Summary()}
	rows := make([][]string, 0, len(classes))
	for _, cl := range classes {
		n := cl.Node
		methods := 0
		n.VisitInstanceMethods(func(classmeta.Method) { methods++ })
		tv := typeView{
			Name:            cl.Name(),
			Kind:            string(n.Type().Kind),
			Path:            n.Type().Path,
			Supertypes:      cl.Supertypes,
			External:        cl.External,
			Ancestors:       len(n.Ancestors()),
			InstanceMethods: methods,
			Properties:      len(n.PropertyNames()),
		}
		view.Classes = append(view.Classes, tv)
		rows = append(rows, []string{
			tv.Name,
			tv.Kind,
			strconv.Itoa(tv.Ancestors),
			strconv.Itoa(tv.InstanceMethods),
			strconv.Itoa(tv.Properties),
		})
	}
	for _, cycle := range s.model.Cycles() {
		view.Cycles = append(view.Cycles, cycle.Error())
		color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: %v\n", &cycle)
	}

	sum := view.Summary
	table := output.NewTable(
		"Classes",
		[]string{"Class", "Kind", "Ancestors", "Methods", "Properties"},
		rows,
		[]string{
			fmt.Sprintf("%d classes", sum.Classes),
			fmt.Sprintf("%d files", sum.Files),
			fmt.Sprintf("%d skipped", sum.Skipped),
			fmt.Sprintf("%d unresolved", sum.Unresolved),
			"",
		},
		view,
	)
	return s.formatter.Output(table)
}

func propertiesCmd() *cli.Command {
	return &cli.Command{
		Name:      "properties",
		Aliases:   []string{"props"},
		Usage:     "Show the merged bean properties of a class",
		ArgsUsage: "[path...]",
		Flags:     []cli.Flag{classFlag()},
		Action:    runPropertiesCmd,
	}
}

type propertyView struct {
	Name    string             `json:"name"`
	Getters []classmeta.Method `json:"getters"`
	Setters []classmeta.Method `json:"setters"`
}

func newPropertyView(p *classmeta.Property) propertyView {
	return propertyView{Name: p.Name(), Getters: p.Getters(), Setters: p.Setters()}
}

func runPropertiesCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	cl, err := s.model.Class(c.String("class"))
	if err != nil {
		return err
	}

	props := cl.Node.Properties()
	views := make([]propertyView, 0, len(props))
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		v := newPropertyView(p)
		views = append(views, v)
		rows = append(rows, []string{v.Name, joinMethods(v.Getters), joinMethods(v.Setters)})
	}

	table := output.NewTable(
		"Properties of "+cl.Name(),
		[]string{"Property", "Getters", "Setters"},
		rows,
		[]string{fmt.Sprintf("%d properties", len(props)), "", ""},
		map[string]any{"class": cl.Name(), "properties": views},
	)
	return s.formatter.Output(table)
}

func propertyCmd() *cli.Command {
	return &cli.Command{
		Name:      "property",
		Usage:     "Show one property of a class",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			classFlag(),
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Property name",
				Required: true,
			},
		},
		Action: runPropertyCmd,
	}
}

func runPropertyCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	cl, err := s.model.Class(c.String("class"))
	if err != nil {
		return err
	}
	p, err := cl.Node.Property(c.String("name"))
	if err != nil {
		return err
	}

	v := newPropertyView(p)
	var rows [][]string
	for _, m := range v.Getters {
		rows = append(rows, []string{"getter", m.String(), m.ReturnType})
	}
	for _, m := range v.Setters {
		rows = append(rows, []string{"setter", m.String(), m.ReturnType})
	}

	table := output.NewTable(
		fmt.Sprintf("Property %s of %s", p.Name(), cl.Name()),
		[]string{"Accessor", "Method", "Returns"},
		rows,
		nil,
		map[string]any{"class": cl.Name(), "property": v},
	)
	return s.formatter.Output(table)
}

func methodsCmd() *cli.Command {
	return &cli.Command{
		Name:      "methods",
		Usage:     "Show the deduplicated instance methods of a class",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			classFlag(),
			&cli.BoolFlag{
				Name:  "declared",
				Usage: "List every declared method across the hierarchy, duplicates included",
			},
		},
		Action: runMethodsCmd,
	}
}

func runMethodsCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	cl, err := s.model.Class(c.String("class"))
	if err != nil {
		return err
	}

	declared := c.Bool("declared")
	var methods []classmeta.Method
	title := "Instance methods of " + cl.Name()
	if declared {
		cl.Node.VisitAllMethods(func(m classmeta.Method) { methods = append(methods, m) })
		title = "Declared methods of " + cl.Name()
	} else {
		cl.Node.VisitInstanceMethods(func(m classmeta.Method) { methods = append(methods, m) })
	}

	rows := make([][]string, 0, len(methods))
	for _, m := range methods {
		rows = append(rows, []string{m.Signature(), m.ReturnType, m.DeclaringType, strings.Join(m.Modifiers, " ")})
	}

	table := output.NewTable(
		title,
		[]string{"Method", "Returns", "Declared In", "Modifiers"},
		rows,
		[]string{fmt.Sprintf("%d methods", len(methods)), "", "", ""},
		map[string]any{"class": cl.Name(), "declared": declared, "methods": methods},
	)
	return s.formatter.Output(table)
}

func fieldsCmd() *cli.Command {
	return &cli.Command{
		Name:      "fields",
		Usage:     "Show every field declared across a class hierarchy",
		ArgsUsage: "[path...]",
		Flags:     []cli.Flag{classFlag()},
		Action:    runFieldsCmd,
	}
}

func runFieldsCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	cl, err := s.model.Class(c.String("class"))
	if err != nil {
		return err
	}

	var fields []classmeta.Field
	cl.Node.VisitAllFields(func(f classmeta.Field) { fields = append(fields, f) })

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, f.Type, f.DeclaringType, strings.Join(f.Modifiers, " ")})
	}

	table := output.NewTable(
		"Fields of "+cl.Name(),
		[]string{"Field", "Type", "Declared In", "Modifiers"},
		rows,
		[]string{fmt.Sprintf("%d fields", len(fields)), "", "", ""},
		map[string]any{"class": cl.Name(), "fields": fields},
	)
	return s.formatter.Output(table)
}

func ancestorsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ancestors",
		Usage:     "Show a class and its flattened ancestors in merge order",
		ArgsUsage: "[path...]",
		Flags:     []cli.Flag{classFlag()},
		Action:    runAncestorsCmd,
	}
}

func runAncestorsCmd(c *cli.Context) error {
	s, err := loadModel(c)
	if err != nil {
		return err
	}
	defer s.Close()

	name := c.String("class")
	cl, err := s.model.Class(name)
	if err != nil {
		return err
	}
	unresolved, err := s.model.Unresolved(cl.Name())
	if err != nil {
		return err
	}

	var types []string
	cl.Node.VisitTypes(func(n *classmeta.Node) {
		types = append(types, n.Type().String())
	})

	report := &output.Report{
		Title: "Hierarchy of " + cl.Name(),
		Sections: []output.Renderable{
			&output.List{Title: "Types", Items: types},
			&output.List{Title: "Unresolved supertypes", Items: unresolved, Empty: "none"},
		},
		Data: map[string]any{
			"class":      cl.Name(),
			"types":      types,
			"unresolved": unresolved,
		},
	}
	return s.formatter.Output(report)
}

func joinMethods(methods []classmeta.Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
