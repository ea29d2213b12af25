// Package camundatest records the commands a job handler sends to the broker.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Gateway answers job commands in memory. Other gateway calls panic.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// JobClient implements worker.JobClient on top of Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func neverRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, neverRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, neverRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, neverRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.Gateway.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.Gateway.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.Gateway.thrown...)
}

// DecodeCompleted unmarshals the variables of the only completed job into out.
func (c *JobClient) DecodeCompleted(t testing.TB, out interface{}) {
	t.Helper()
	completed := c.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed job, got %d (failed %d, thrown %d)",
			len(completed), len(c.Failed()), len(c.Thrown()))
	}
	if err := json.Unmarshal([]byte(completed[0].Variables), out); err != nil {
		t.Fatalf("decode completed variables: %v", err)
	}
}

// NewJob builds an activated job carrying vars as its variables.
func NewJob(t testing.TB, taskType string, vars interface{}) entities.Job {
	t.Helper()
	raw, err := json.Marshal(vars)
	if err != nil {
		t.Fatalf("encode job variables: %v", err)
	}
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                2251799813685249,
		Type:               taskType,
		ProcessInstanceKey: 2251799813685001,
		Retries:            3,
		Variables:          string(raw),
	}}
}
