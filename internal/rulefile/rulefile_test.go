package rulefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/rule"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

func TestCompile(t *testing.T) {
	src := `
rule: {
	"AWS::DynamoDB::Table": {
		nameProperty: "CustomTableName"
	}
	"AWS::QuantumCompute::Lattice": {
		includeTypeName: false
	}
	"AWS::CloudWatch::Alarm": {
		disabled: true
	}
}
`
	rules, err := Compile([]byte(src), "overrides.cue")
	require.NoError(t, err)
	require.Len(t, rules, 3)

	byTag := map[string]rule.Rule{}
	for _, r := range rules {
		byTag[r.TypeID().String()] = r
	}

	assert.Equal(t, "CustomTableName", byTag["AWS::DynamoDB::Table"].PropertyKey())
	assert.Equal(t, "Name", byTag["AWS::QuantumCompute::Lattice"].PropertyKey())
	assert.False(t, byTag["AWS::CloudWatch::Alarm"].NamingEnabled())
}

func TestCompiledRulesUseDefaultConverters(t *testing.T) {
	rules, err := Compile([]byte(`rule: "AWS::QuantumCompute::Lattice": {}`), "r.cue")
	require.NoError(t, err)
	require.Len(t, rules, 1)

	got := rules[0].Synthesize("p-", "MyLattice", config.Config{})
	assert.Equal(t, "p-my-lattice", got)
}

func TestCompileOverridesWinInTable(t *testing.T) {
	rules, err := Compile([]byte(`rule: "AWS::DynamoDB::Table": { nameProperty: "Override" }`), "r.cue")
	require.NoError(t, err)

	table := rule.Default()
	table.Prepend(rules...)

	r, ok := table.Find(typeid.New("AWS", "DynamoDB", "Table"))
	require.True(t, ok)
	assert.Equal(t, "Override", r.PropertyKey())
}

func TestCompileRejectsUnknownOption(t *testing.T) {
	_, err := Compile([]byte(`rule: "AWS::DynamoDB::Table": { namePropert: "typo" }`), "r.cue")
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "AWS::DynamoDB::Table", cerr.TypeTag)
	assert.Contains(t, cerr.Message, "namePropert")
}

func TestCompileRejectsBadTypeTag(t *testing.T) {
	_, err := Compile([]byte(`rule: "NotATag": { disabled: true }`), "r.cue")
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "NotATag", cerr.TypeTag)
}

func TestCompileRejectsUnsupportedValueKind(t *testing.T) {
	_, err := Compile([]byte(`rule: "AWS::DynamoDB::Table": { disabled: 3 }`), "r.cue")
	require.Error(t, err)

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "disabled")
}

func TestCompileRequiresRuleBlock(t *testing.T) {
	_, err := Compile([]byte(`other: {}`), "r.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule")
}

func TestCompileEmptyRuleBlock(t *testing.T) {
	_, err := Compile([]byte(`rule: {}`), "r.cue")
	require.Error(t, err)
}

func TestCompileMalformedCUE(t *testing.T) {
	_, err := Compile([]byte(`rule: {`), "r.cue")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.cue")
	require.NoError(t, os.WriteFile(path, []byte(`rule: "AWS::DynamoDB::Table": { disabled: true }`), 0o644))

	rules, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.False(t, rules[0].NamingEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
}
