package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	stdout, _, err := executeCommand(t, "name", "ProcessOrderLambdaFunction", "--prefix", "acct-", "--strip-function-suffix")
	require.NoError(t, err)
	assert.Equal(t, "acct-process-order", strings.TrimSpace(stdout))
}

func TestNameWithoutSuffixStripping(t *testing.T) {
	stdout, _, err := executeCommand(t, "name", "ProcessOrderLambdaFunction", "--prefix", "acct-")
	require.NoError(t, err)
	assert.Equal(t, "acct-process-order-lambda-function", strings.TrimSpace(stdout))
}

func TestNameJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "name", "ProcessOrder", "--prefix", "p-", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   NameResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ProcessOrder", resp.Data.LogicalID)
	assert.Equal(t, "p-process-order", resp.Data.Name)
}

func TestNameRequiresPrefix(t *testing.T) {
	stdout, _, err := executeCommand(t, "name", "ProcessOrder")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "E004")
}
