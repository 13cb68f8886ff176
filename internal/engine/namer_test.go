package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/rule"
	"github.com/cfnamer/cfnamer/internal/template"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Prefix = "myapp-"
	return cfg
}

func resources(src string) map[string]*template.Resource {
	tpl, err := template.Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return tpl.Resources
}

func TestApplyResourcesSynthesizesNames(t *testing.T) {
	res := resources(`
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
  NotifyTopic:
    Type: AWS::SNS::Topic
    Properties:
      DisplayName: notifications
`)

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyResources(res, nil, testConfig()))

	assert.Equal(t, "myapp-orders-table", res["OrdersTable"].Properties["TableName"])
	assert.Equal(t, "myapp-notify-topic", res["NotifyTopic"].Properties["TopicName"])
	assert.Equal(t, "notifications", res["NotifyTopic"].Properties["DisplayName"],
		"unrelated properties untouched")
}

func TestApplyResourcesValidatesConfigFirst(t *testing.T) {
	res := resources(`
Resources:
  Bad:
    Type: not-a-tag
`)

	n := New(rule.Default(), nil)
	err := n.ApplyResources(res, nil, config.Config{}) // empty prefix

	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Nil(t, res["Bad"].Properties, "config failure precedes any declaration processing")
}

func TestApplyResourcesMissingTypeTag(t *testing.T) {
	res := resources(`
Resources:
  Mystery:
    Properties:
      Foo: bar
`)

	n := New(rule.Default(), nil)
	err := n.ApplyResources(res, nil, testConfig())

	require.Error(t, err)
	var pe *PassError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeMissingTypeTag, pe.Code)
	assert.Equal(t, "Mystery", pe.LogicalID)
	assert.Equal(t, map[string]any{"Foo": "bar"}, res["Mystery"].Properties)
}

func TestApplyResourcesInvalidTypeTag(t *testing.T) {
	res := resources(`
Resources:
  Bad:
    Type: BadTag
`)

	n := New(rule.Default(), nil)
	err := n.ApplyResources(res, nil, testConfig())

	require.Error(t, err)
	var pe *PassError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeInvalidTypeTag, pe.Code)
	assert.Equal(t, "Bad", pe.LogicalID)
	assert.Contains(t, pe.Error(), "BadTag")
	assert.True(t, IsTypeTagError(err))
	assert.Nil(t, res["Bad"].Properties, "no properties mutated on fatal error")
}

func TestApplyResourcesUnmatchedTypeWarnsOnce(t *testing.T) {
	res := resources(`
Resources:
  Exotic:
    Type: AWS::QuantumCompute::Lattice
    Properties:
      Qubits: 8
`)

	var warnings []string
	n := New(rule.Default(), func(msg string) { warnings = append(warnings, msg) })
	require.NoError(t, n.ApplyResources(res, nil, testConfig()))

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "AWS::QuantumCompute::Lattice")
	assert.Contains(t, warnings[0], "Exotic")
	assert.Equal(t, map[string]any{"Qubits": 8}, res["Exotic"].Properties,
		"unmatched declaration left byte-for-byte unchanged")
}

func TestApplyResourcesUnmatchedTypeWarningGated(t *testing.T) {
	res := resources(`
Resources:
  Exotic:
    Type: AWS::QuantumCompute::Lattice
`)

	cfg := testConfig()
	cfg.WarnOnUnknownType = false

	var warnings []string
	n := New(rule.Default(), func(msg string) { warnings = append(warnings, msg) })
	require.NoError(t, n.ApplyResources(res, nil, cfg))

	assert.Empty(t, warnings)
}

func TestApplyResourcesOverrideAvoidance(t *testing.T) {
	res := resources(`
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
`)
	prior := resources(`
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
    Properties:
      TableName: legacy-orders
`)

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyResources(res, prior, testConfig()))

	assert.Equal(t, "legacy-orders", res["OrdersTable"].Properties["TableName"])
}

func TestApplyResourcesIdempotent(t *testing.T) {
	src := `
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
  ProcessOrderLambdaFunction:
    Type: AWS::Lambda::Function
  DataBucket:
    Type: AWS::S3::Bucket
`
	first := resources(src)
	n := New(rule.Default(), nil)
	cfg := testConfig()
	cfg.StripFunctionSuffix = true

	require.NoError(t, n.ApplyResources(first, nil, cfg))

	// Second pass over a fresh copy, with the first pass's output as the
	// prior view, must reproduce the first pass exactly.
	second := resources(src)
	require.NoError(t, n.ApplyResources(second, first, cfg))

	assert.Equal(t, first, second)
}

func TestApplyResourcesDeclarationsAreIndependent(t *testing.T) {
	res := resources(`
Resources:
  QueueA:
    Type: AWS::SQS::Queue
  QueueB:
    Type: AWS::SQS::Queue
`)

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyResources(res, nil, testConfig()))

	assert.Equal(t, "myapp-queue-a", res["QueueA"].Properties["QueueName"])
	assert.Equal(t, "myapp-queue-b", res["QueueB"].Properties["QueueName"])
}

func TestApplyResourcesLambdaSuffixExample(t *testing.T) {
	res := resources(`
Resources:
  ProcessOrderLambdaFunction:
    Type: AWS::Lambda::Function
`)

	cfg := config.Default()
	cfg.Prefix = "acct-"
	cfg.StripFunctionSuffix = true

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyResources(res, nil, cfg))

	assert.Equal(t, "acct-process-order",
		res["ProcessOrderLambdaFunction"].Properties["FunctionName"])
}

func TestApplyResourcesRecords(t *testing.T) {
	res := resources(`
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
  InvokePermission:
    Type: AWS::Lambda::Permission
`)
	prior := resources(`
Resources:
  OrdersTable:
    Type: AWS::DynamoDB::Table
    Properties:
      TableName: legacy-orders
`)

	var recs []Record
	n := New(rule.Default(), nil)
	n.OnRecord(func(r Record) { recs = append(recs, r) })
	require.NoError(t, n.ApplyResources(res, prior, testConfig()))

	require.Len(t, recs, 1, "structural types produce no records")
	assert.Equal(t, Record{
		LogicalID: "OrdersTable",
		TypeTag:   "AWS::DynamoDB::Table",
		Property:  "TableName",
		Value:     "legacy-orders",
		Kept:      true,
	}, recs[0])
}

func TestApplyPolicyNamesAlwaysOverwrites(t *testing.T) {
	res := resources(`
Resources:
  WorkerRole:
    Type: AWS::IAM::Role
    Properties:
      Policies:
        - PolicyName: custom-label
        - PolicyDocument:
            Version: "2012-10-17"
`)

	n := New(rule.Default(), nil)
	n.ApplyPolicyNames(res)

	list := res["WorkerRole"].Properties["Policies"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "inline-policy-0", list[0].(map[string]any)["PolicyName"])
	assert.Equal(t, "inline-policy-1", list[1].(map[string]any)["PolicyName"])
}

func TestApplyPolicyNamesSkipsNonLists(t *testing.T) {
	res := resources(`
Resources:
  Cluster:
    Type: AWS::ECS::Cluster
    Properties:
      Policies: not-a-list
`)

	n := New(rule.Default(), nil)
	n.ApplyPolicyNames(res)

	assert.Equal(t, "not-a-list", res["Cluster"].Properties["Policies"])
}

func outputs(src string) map[string]*template.Output {
	tpl, err := template.Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return tpl.Outputs
}

func TestApplyExports(t *testing.T) {
	outs := outputs(`
Resources: {}
Outputs:
  ApiUrl:
    Value: https://example.invalid
  TableArn:
    Value: arn
    Export:
      Name: hand-written
`)

	cfg := testConfig()
	cfg.GenerateExports = true

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyExports(outs, cfg))

	assert.Equal(t, "myapp-api-url", outs["ApiUrl"].Export["Name"])
	assert.Equal(t, "hand-written", outs["TableArn"].Export["Name"],
		"override-avoidance applies against the export block itself")
}

func TestApplyExportsUsesExportPrefix(t *testing.T) {
	outs := outputs(`
Resources: {}
Outputs:
  ApiUrl:
    Value: x
`)

	cfg := testConfig()
	cfg.GenerateExports = true
	cfg.ExportPrefix = "shared-"

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyExports(outs, cfg))

	assert.Equal(t, "shared-api-url", outs["ApiUrl"].Export["Name"])
}

func TestApplyExportsDisabled(t *testing.T) {
	outs := outputs(`
Resources: {}
Outputs:
  ApiUrl:
    Value: x
`)

	n := New(rule.Default(), nil)
	require.NoError(t, n.ApplyExports(outs, testConfig()))

	assert.Nil(t, outs["ApiUrl"].Export)
}
