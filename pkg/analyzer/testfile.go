package analyzer

import (
	"path/filepath"
	"strings"
)

// testFileSuffixes are the Java test class naming conventions.
var testFileSuffixes = []string{
	"Test.java",
	"Tests.java",
	"IT.java",
	"TestCase.java",
}

// testDirPatterns are directory patterns that indicate test sources.
var testDirPatterns = []string{
	"/src/test/", "\\src\\test\\",
	"/test/", "\\test\\",
	"/tests/", "\\tests\\",
}

// IsTestFile checks if a file is a Java test source based on naming
// conventions and the Maven/Gradle source layout.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range testFileSuffixes {
		if strings.HasSuffix(base, suffix) && base != suffix {
			return true
		}
	}

	if strings.HasPrefix(path, "test/") || strings.HasPrefix(path, "tests/") ||
		strings.HasPrefix(path, "src/test/") {
		return true
	}
	for _, pattern := range testDirPatterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}

	return false
}
