package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/panbanda/classmeta/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]string

func (m mapSource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%s: not found", path)
	}
	return []byte(content), nil
}

func TestMapSources_PreservesOrder(t *testing.T) {
	src := mapSource{}
	var files []string
	for i := range 50 {
		path := fmt.Sprintf("C%02d.java", i)
		src[path] = fmt.Sprintf("class C%02d {}", i)
		files = append(files, path)
	}

	results := MapSources(context.Background(), files, src, 4,
		func(psr *parser.Parser, path string, content []byte) (string, error) {
			return string(content), nil
		})

	require.Len(t, results, 50)
	for i, r := range results {
		assert.Equal(t, files[i], r.Path)
		assert.NoError(t, r.Err)
		assert.Equal(t, src[files[i]], r.Value)
	}
}

func TestMapSources_ParsesWithDedicatedParser(t *testing.T) {
	src := mapSource{"A.java": "class A extends B {}"}

	results := MapSources(context.Background(), []string{"A.java"}, src, 0,
		func(psr *parser.Parser, path string, content []byte) (*parser.JavaFile, error) {
			res, err := psr.Parse(context.Background(), content, parser.LangJava, path)
			if err != nil {
				return nil, err
			}
			return parser.ExtractJavaTypes(res)
		})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Value.Types, 1)
	assert.Equal(t, []string{"B"}, results[0].Value.Types[0].Supertypes)
}

func TestMapSources_RecordsErrors(t *testing.T) {
	src := mapSource{"A.java": "class A {}", "Bad.java": "class Bad {}"}
	boom := errors.New("boom")
	var calls atomic.Int32

	results := MapSources(context.Background(), []string{"A.java", "Missing.java", "Bad.java"}, src, 2,
		func(_ *parser.Parser, path string, _ []byte) (int, error) {
			calls.Add(1)
			if path == "Bad.java" {
				return 0, boom
			}
			return 1, nil
		})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.ErrorIs(t, results[2].Err, boom)
	assert.Equal(t, int32(2), calls.Load(), "fn is not called when the read fails")
}

func TestMapSources_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := MapSources(ctx, []string{"A.java"}, mapSource{"A.java": ""}, 1,
		func(*parser.Parser, string, []byte) (int, error) {
			t.Error("fn should not run after cancellation")
			return 0, nil
		})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestMapSources_TicksTracker(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)
	src := mapSource{"A.java": "", "B.java": ""}

	MapSources(ctx, []string{"A.java", "B.java", "C.java"}, src, 2,
		func(*parser.Parser, string, []byte) (int, error) { return 0, nil })

	assert.Equal(t, 3, tracker.Total())
	assert.Equal(t, 3, tracker.Done())
}

func TestMapSources_Empty(t *testing.T) {
	results := MapSources(context.Background(), nil, mapSource{}, 1,
		func(*parser.Parser, string, []byte) (int, error) { return 0, nil })
	assert.Nil(t, results)
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/main/java/com/acme/Widget.java", false},
		{"src/test/java/com/acme/WidgetTest.java", true},
		{"module/src/test/java/Fixtures.java", true},
		{"com/acme/WidgetTests.java", true},
		{"com/acme/WidgetIT.java", true},
		{"com/acme/Test.java", false},
		{"com/acme/Contest.java", false},
		{"test/Helper.java", true},
		{"tests/Helper.java", true},
		{"/repo/module/src/test/java/Fixtures.java", true},
		{"src/main/java/com/acme/testing/Support.java", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFile(tt.path))
		})
	}
}

func TestMapSources_TrackerRecordsFailures(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)
	src := mapSource{"A.java": "", "B.java": ""}

	MapSources(ctx, []string{"A.java", "B.java", "C.java"}, src, 2,
		func(_ *parser.Parser, path string, _ []byte) (int, error) {
			if path == "B.java" {
				return 0, errors.New("parse failed")
			}
			return 0, nil
		})

	failed := tracker.Failed()
	sort.Strings(failed)
	assert.Equal(t, []string{"B.java", "C.java"}, failed)
}
