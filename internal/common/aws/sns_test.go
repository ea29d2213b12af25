package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSNSClient_Publish(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake, topicARN: "arn:aws:sns:me-south-1:123456789012:storefront-admin"}

	id, err := c.Publish(context.Background(), "admin_action_applied", map[string]interface{}{"operation": "bulk", "affected": 2})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	require.NotNil(t, fake.input)
	assert.Equal(t, "arn:aws:sns:me-south-1:123456789012:storefront-admin", aws.ToString(fake.input.TopicArn))
	assert.Equal(t, "admin_action_applied", aws.ToString(fake.input.MessageAttributes["eventType"].StringValue))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.Message)), &body))
	assert.Equal(t, "bulk", body["operation"])
	assert.Equal(t, float64(2), body["affected"])
}

func TestSNSClient_PublishErrors(t *testing.T) {
	c := &SNSClient{client: &fakeSNS{err: errors.New("throttled")}, topicARN: "arn"}

	_, err := c.Publish(context.Background(), "admin_action_applied", map[string]string{})
	assert.ErrorContains(t, err, "throttled")

	_, err = c.Publish(context.Background(), "admin_action_applied", make(chan int))
	assert.ErrorContains(t, err, "encode")
}
