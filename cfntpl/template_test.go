package cfntpl_test

import (
	"reflect"
	"testing"

	"github.com/basewarphq/cfnident/cfntpl"
)

const templateJSON = `{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Resources": {
    "Bucket": {
      "Type": "AWS::S3::Bucket",
      "Properties": {"BucketName": "data"}
    },
    "Queue": {
      "Type": "AWS::SQS::Queue",
      "DependsOn": "Bucket"
    }
  },
  "Outputs": {"BucketOut": {"Value": {"Ref": "Bucket"}}}
}`

const templateYAML = `
AWSTemplateFormatVersion: "2010-09-09"
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: data
  Queue:
    Type: AWS::SQS::Queue
    DependsOn: Bucket
Outputs:
  BucketOut:
    Value:
      Ref: Bucket
`

func TestParseJSON(t *testing.T) {
	t.Parallel()
	tpl, err := cfntpl.ParseJSON([]byte(templateJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tpl.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(tpl.Resources))
	}
	bucket := tpl.Resources["Bucket"]
	if bucket == nil || bucket.Type != "AWS::S3::Bucket" {
		t.Errorf("unexpected Bucket resource: %+v", bucket)
	}
	if name := bucket.Properties["BucketName"]; name != "data" {
		t.Errorf("expected BucketName data, got %v", name)
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	tpl, err := cfntpl.ParseYAML([]byte(templateYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tpl.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(tpl.Resources))
	}
	if deps := tpl.Resources["Queue"].DependsOnList(); len(deps) != 1 || deps[0] != "Bucket" {
		t.Errorf("expected Queue to depend on Bucket, got %v", deps)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	t.Parallel()
	if _, err := cfntpl.ParseJSON([]byte(`{"Resources": [`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()
	tpl, err := cfntpl.FromMap(map[string]any{
		"Resources": map[string]any{
			"Bucket": map[string]any{"Type": "AWS::S3::Bucket"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Resources["Bucket"].Type != "AWS::S3::Bucket" {
		t.Errorf("unexpected resource: %+v", tpl.Resources["Bucket"])
	}
}

func TestDependsOnList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		dependsOn any
		want      []string
	}{
		{"nil", nil, nil},
		{"string", "A", []string{"A"}},
		{"string slice", []string{"A", "B"}, []string{"A", "B"}},
		{"any slice", []any{"A", "B"}, []string{"A", "B"}},
		{"mixed slice drops non-strings", []any{"A", 42, "B"}, []string{"A", "B"}},
		{"number", 42, nil},
	}
	for _, tc := range tests {
		res := &cfntpl.Resource{Type: "AWS::S3::Bucket", DependsOn: tc.dependsOn}
		got := res.DependsOnList()
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBodyMapIncludesOnlySetAttributes(t *testing.T) {
	t.Parallel()
	res := &cfntpl.Resource{
		Type:           "AWS::S3::Bucket",
		Properties:     map[string]any{"BucketName": "data"},
		DeletionPolicy: "Retain",
	}

	body := res.BodyMap()
	if body["Type"] != "AWS::S3::Bucket" {
		t.Errorf("expected Type in body, got %v", body["Type"])
	}
	if body["DeletionPolicy"] != "Retain" {
		t.Errorf("expected DeletionPolicy in body, got %v", body["DeletionPolicy"])
	}
	for _, absent := range []string{"DependsOn", "Metadata", "Condition", "CreationPolicy", "UpdatePolicy", "UpdateReplacePolicy"} {
		if _, ok := body[absent]; ok {
			t.Errorf("unset attribute %s should not appear in body", absent)
		}
	}
}
