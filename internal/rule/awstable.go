package rule

import "github.com/cfnamer/cfnamer/internal/typeid"

// aws is a construction shorthand for the built-in table.
func aws(provider, name string, opts Options) Rule {
	return New(typeid.New("AWS", provider, name), opts)
}

// Default returns the built-in rule table. The table is configuration
// data: supporting a new resource type means adding an entry here, not a
// new code path. Order only matters for lookup precedence, which is why
// overrides are prepended rather than merged.
func Default() *Table {
	return NewTable(
		// Compute
		aws("Lambda", "Function", Options{LogicalName: FunctionShortName}),
		aws("Lambda", "Permission", Options{Disabled: true}),
		aws("Lambda", "Version", Options{Disabled: true}),
		aws("Lambda", "EventSourceMapping", Options{Disabled: true}),

		// Storage
		aws("S3", "Bucket", Options{Name: BucketSafe}),
		aws("S3", "BucketPolicy", Options{Disabled: true}),
		aws("DynamoDB", "Table", Options{}),
		aws("ElastiCache", "CacheCluster", Options{NameProperty: "ClusterName"}),
		aws("Elasticsearch", "Domain", Options{}),

		// Messaging
		aws("SQS", "Queue", Options{}),
		aws("SQS", "QueuePolicy", Options{Disabled: true}),
		aws("SNS", "Topic", Options{}),
		aws("SNS", "Subscription", Options{Disabled: true}),
		aws("Kinesis", "Stream", Options{OmitTypeName: true}),

		// IAM
		aws("IAM", "Role", Options{}),
		aws("IAM", "ManagedPolicy", Options{}),
		aws("IAM", "Policy", Options{Disabled: true}),

		// API
		aws("ApiGateway", "RestApi", Options{OmitTypeName: true}),
		aws("ApiGateway", "ApiKey", Options{OmitTypeName: true}),
		aws("ApiGateway", "UsagePlan", Options{}),
		aws("ApiGateway", "Stage", Options{}),
		aws("ApiGateway", "Deployment", Options{Disabled: true}),
		aws("ApiGateway", "Method", Options{Disabled: true}),
		aws("ApiGateway", "Resource", Options{Disabled: true}),
		aws("AppSync", "GraphQLApi", Options{OmitTypeName: true}),

		// Observability
		aws("Logs", "LogGroup", Options{}),
		aws("Logs", "SubscriptionFilter", Options{Disabled: true}),
		aws("CloudWatch", "Alarm", Options{}),
		aws("CloudWatch", "Dashboard", Options{}),

		// Orchestration
		aws("StepFunctions", "StateMachine", Options{}),
		aws("StepFunctions", "Activity", Options{OmitTypeName: true}),
		aws("Events", "Rule", Options{OmitTypeName: true}),

		// Auth
		aws("Cognito", "UserPool", Options{}),
		aws("Cognito", "IdentityPool", Options{}),

		// Misc
		aws("ECR", "Repository", Options{}),
		aws("ECS", "Cluster", Options{}),
		aws("ECS", "Service", Options{}),
		aws("EC2", "SecurityGroup", Options{NameProperty: "GroupName"}),
		aws("EC2", "SecurityGroupIngress", Options{Disabled: true}),
		aws("KMS", "Alias", Options{}),
		aws("CodeBuild", "Project", Options{OmitTypeName: true}),
		aws("SecretsManager", "Secret", Options{OmitTypeName: true}),
		aws("SSM", "Parameter", Options{OmitTypeName: true}),
		aws("Glue", "Job", Options{OmitTypeName: true}),
	)
}
