package cfngraph_test

import (
	"reflect"
	"testing"

	"github.com/basewarphq/cfnident/cfngraph"
	"github.com/basewarphq/cfnident/cfntpl"
)

func TestBuildEdges(t *testing.T) {
	t.Parallel()
	resources := map[string]*cfntpl.Resource{
		"Bucket": {Type: "AWS::S3::Bucket"},
		"Role": {
			Type: "AWS::IAM::Role",
			Properties: map[string]any{
				"Policies": []any{
					map[string]any{"Resource": map[string]any{"Fn::GetAtt": []any{"Bucket", "Arn"}}},
				},
			},
		},
		"Function": {
			Type:       "AWS::Lambda::Function",
			Properties: map[string]any{"Role": map[string]any{"Ref": "Role"}},
			DependsOn:  "Bucket",
		},
	}

	g := cfngraph.Build(resources)
	if g.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.Len())
	}
	if !g.HasEdge("Role", "Bucket") {
		t.Error("expected edge Role -> Bucket")
	}
	if got := g.Dependencies("Function"); !reflect.DeepEqual(got, []string{"Bucket"}) {
		t.Errorf("top-level DependsOn shadows the body; expected [Bucket], got %v", got)
	}
	if got := g.Dependents("Bucket"); !reflect.DeepEqual(got, []string{"Function", "Role"}) {
		t.Errorf("expected dependents [Function Role], got %v", got)
	}
	if got := g.Dependencies("Bucket"); got != nil {
		t.Errorf("expected no dependencies for Bucket, got %v", got)
	}
}

func TestBuildDropsExternalAndSelfReferences(t *testing.T) {
	t.Parallel()
	resources := map[string]*cfntpl.Resource{
		"Bucket": {
			Type: "AWS::S3::Bucket",
			Properties: map[string]any{
				"LoggingConfiguration": map[string]any{"Ref": "Bucket"},
				"NotificationTarget":   map[string]any{"Ref": "SomeParameter"},
			},
		},
	}

	g := cfngraph.Build(resources)
	if got := g.Dependencies("Bucket"); got != nil {
		t.Errorf("expected no edges, got %v", got)
	}
}

func TestBuildCollapsesDuplicates(t *testing.T) {
	t.Parallel()
	resources := map[string]*cfntpl.Resource{
		"Bucket": {Type: "AWS::S3::Bucket"},
		"Role": {
			Type: "AWS::IAM::Role",
			Properties: map[string]any{
				"A": map[string]any{"Ref": "Bucket"},
				"B": map[string]any{"Ref": "Bucket"},
			},
		},
	}

	g := cfngraph.Build(resources)
	if got := g.Dependencies("Role"); !reflect.DeepEqual(got, []string{"Bucket"}) {
		t.Errorf("expected [Bucket], got %v", got)
	}
}

func TestCyclesEmptyOnDAG(t *testing.T) {
	t.Parallel()
	resources := map[string]*cfntpl.Resource{
		"A": {Type: "T", Properties: map[string]any{"X": map[string]any{"Ref": "B"}}},
		"B": {Type: "T"},
	}

	if cycles := cfngraph.Build(resources).Cycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestCyclesNamesMembers(t *testing.T) {
	t.Parallel()
	resources := map[string]*cfntpl.Resource{
		"A": {Type: "T", Properties: map[string]any{"X": map[string]any{"Ref": "B"}}},
		"B": {Type: "T", Properties: map[string]any{"X": map[string]any{"Ref": "A"}}},
		"C": {Type: "T"},
	}

	cycles := cfngraph.Build(resources).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %v", cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"A", "B"}) {
		t.Errorf("expected cycle [A B], got %v", cycles[0])
	}
}
