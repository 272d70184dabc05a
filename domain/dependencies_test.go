package domain_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/reglet-dev/sysdialog"

var domainPackages = []string{"entities", "errors", "ports", "gate", "pending"}

// TestDomainHasNoExternalDependencies verifies that the domain layer
// does not import from application or infrastructure layers.
func TestDomainHasNoExternalDependencies(t *testing.T) {
	domainPath := "../domain"
	fset := token.NewFileSet()

	for _, pkg := range domainPackages {
		files, err := filepath.Glob(filepath.Join(domainPath, pkg, "*.go"))
		require.NoError(t, err, "failed to glob %s files", pkg)

		for _, file := range files {
			// Tests may import testify and test helpers
			if strings.HasSuffix(file, "_test.go") {
				continue
			}
			checkFileImports(t, fset, file, pkg)
		}
	}
}

func checkFileImports(t *testing.T, fset *token.FileSet, filename, pkg string) {
	t.Helper()

	f, err := parser.ParseFile(fset, filename, nil, parser.ImportsOnly)
	require.NoError(t, err, "failed to parse %s", filename)

	forbiddenPackages := []string{
		modulePath + "/application",
		modulePath + "/infrastructure",
		modulePath + "/log",
		modulePath + "/cmd",
		modulePath + "/internal",
	}

	for _, imp := range f.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		for _, forbidden := range forbiddenPackages {
			assert.False(t, strings.HasPrefix(importPath, forbidden),
				"domain/%s package (%s) must not import from %s (violates hexagonal architecture)",
				pkg, filepath.Base(filename), forbidden)
		}

		if strings.HasPrefix(importPath, modulePath+"/") {
			assert.True(t,
				strings.HasPrefix(importPath, modulePath+"/domain/"),
				"domain/%s package (%s) imports non-domain package: %s",
				pkg, filepath.Base(filename), importPath)
		}
	}
}

// TestDomainPackagesExist verifies that required domain packages exist
func TestDomainPackagesExist(t *testing.T) {
	for _, dir := range domainPackages {
		files, err := filepath.Glob(filepath.Join("../domain", dir, "*.go"))

		require.NoError(t, err, "failed to check %s directory", dir)
		assert.NotEmpty(t, files, "domain/%s should contain Go files", dir)
	}
}
