package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/classmeta/internal/testutil"
	"github.com/panbanda/classmeta/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

var fixture = map[string]string{
	"src/main/java/com/acme/Base.java": `package com.acme;

public class Base {
    private int x;

    public int getX() { return x; }
    public void setX(int x) { this.x = x; }
}
`,
	"src/main/java/com/acme/Derived.java": `package com.acme;

import java.io.Serializable;

public class Derived extends Base implements Serializable {
    protected String y;

    public String getY() { return y; }
    void helper() {}
}
`,
}

// writeProject lays the fixture out in a temp dir and makes it the working
// directory, so config lookup and the cache stay inside the test.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, files)
	t.Chdir(dir)
	return dir
}

// run executes the CLI with JSON output written to a file and returns it.
func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.json")
	full := append([]string{"classmeta", "--no-cache", "--format", "json", "--output", out}, args...)
	if err := newApp().Run(full); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	return data, nil
}

func TestTypesCmd(t *testing.T) {
	writeProject(t, fixture)

	data, err := run(t, "types", ".")
	require.NoError(t, err)

	var got typesView
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Classes, 2)

	derived := got.Classes[1]
	assert.Equal(t, "com.acme.Derived", derived.Name)
	assert.Equal(t, []string{"com.acme.Base"}, derived.Supertypes)
	assert.Equal(t, []string{"Serializable"}, derived.External)
	assert.Equal(t, 1, derived.Ancestors)
	assert.Equal(t, 2, derived.Properties)
	assert.Equal(t, 4, derived.InstanceMethods)
	assert.Equal(t, 2, got.Summary.Files)
}

func TestPropertiesCmd(t *testing.T) {
	writeProject(t, fixture)

	data, err := run(t, "properties", "--class", "Derived")
	require.NoError(t, err)

	var got struct {
		Class      string         `json:"class"`
		Properties []propertyView `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "com.acme.Derived", got.Class)
	require.Len(t, got.Properties, 2)
	assert.Equal(t, "x", got.Properties[0].Name)
	require.Len(t, got.Properties[0].Setters, 1)
	assert.Equal(t, "com.acme.Base", got.Properties[0].Setters[0].DeclaringType)
	assert.Empty(t, got.Properties[1].Setters)
}

func TestPropertyCmd_Missing(t *testing.T) {
	writeProject(t, fixture)

	_, err := run(t, "property", "--class", "com.acme.Derived", "--name", "z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no property 'z' found on class com.acme.Derived")
}

func TestPropertyCmd(t *testing.T) {
	writeProject(t, fixture)

	data, err := run(t, "property", "--class", "Derived", "--name", "x")
	require.NoError(t, err)

	var got struct {
		Property propertyView `json:"property"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Property.Getters, 1)
	assert.Equal(t, "getX", got.Property.Getters[0].Name)
}

func TestMethodsCmd(t *testing.T) {
	writeProject(t, fixture)

	var got struct {
		Methods []struct {
			Name string `json:"name"`
		} `json:"methods"`
	}

	data, err := run(t, "methods", "--class", "Derived")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	names := make([]string, len(got.Methods))
	for i, m := range got.Methods {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"getY", "helper", "getX", "setX"}, names)

	data, err = run(t, "methods", "--class", "Derived", "--declared")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got.Methods, 4)
}

func TestFieldsCmd(t *testing.T) {
	writeProject(t, fixture)

	data, err := run(t, "fields", "--class", "Derived")
	require.NoError(t, err)

	var got struct {
		Fields []struct {
			Name          string `json:"name"`
			DeclaringType string `json:"declaring_type"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "y", got.Fields[0].Name)
	assert.Equal(t, "com.acme.Base", got.Fields[1].DeclaringType)
}

func TestAncestorsCmd(t *testing.T) {
	writeProject(t, fixture)

	data, err := run(t, "ancestors", "--class", "Derived")
	require.NoError(t, err)

	var got struct {
		Types      []string `json:"types"`
		Unresolved []string `json:"unresolved"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"class com.acme.Derived", "class com.acme.Base"}, got.Types)
	assert.Equal(t, []string{"Serializable"}, got.Unresolved)
}

func TestClassNotFound(t *testing.T) {
	writeProject(t, fixture)

	_, err := run(t, "methods", "--class", "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class Nope not found")
}

func TestNoSources(t *testing.T) {
	writeProject(t, map[string]string{"README.md": "# nothing here\n"})

	_, err := run(t, "types")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Java sources found")
}

func TestTypesCmd_AtRef(t *testing.T) {
	dir := writeProject(t, fixture)
	testutil.CommitTree(t, dir, fixture)

	// Only the committed tree is analyzed.
	extra := filepath.Join(dir, "src/main/java/com/acme/Later.java")
	require.NoError(t, os.WriteFile(extra, []byte("package com.acme;\nclass Later {}\n"), 0o644))

	data, err := run(t, "--ref", "HEAD", "types", ".")
	require.NoError(t, err)

	var got typesView
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Classes, 2)
	assert.Equal(t, "src/main/java/com/acme/Base.java", got.Classes[0].Path)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	target := filepath.Join(".classmeta", "classmeta.toml")
	require.NoError(t, newApp().Run([]string{"classmeta", "init", "--output", target}))

	cfg, err := config.Load(target)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Accessors, cfg.Accessors)

	err = newApp().Run([]string{"classmeta", "init", "--output", target})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, newApp().Run([]string{"classmeta", "init", "--output", target, "--force"}))
}

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", nil, []string{"."}},
		{"single path", []string{"/foo/bar"}, []string{"/foo/bar"}},
		{"multiple paths", []string{"/foo", "/bar"}, []string{"/foo", "/bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			app := &cli.App{Action: func(c *cli.Context) error {
				got = getPaths(c)
				return nil
			}}
			require.NoError(t, app.Run(append([]string{"test"}, tt.args...)))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDiscover_ReportsFoundFiles(t *testing.T) {
	writeProject(t, fixture)

	var files []string
	found := 0
	app := &cli.App{Action: func(c *cli.Context) error {
		var err error
		files, _, err = discover(c, config.DefaultConfig(), func() { found++ })
		return err
	}}
	require.NoError(t, app.Run([]string{"test", "."}))

	assert.Len(t, files, 2)
	assert.Equal(t, 2, found)
}
