package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// PublishJSON marshals v and publishes it with the given headers.
func PublishJSON(ctx context.Context, p Publisher, topic string, v any, headers map[string]string) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("messaging: encode %s: %w", topic, err)
	}
	return p.Publish(ctx, topic, Outgoing{Body: body, Headers: headers})
}

// DecodeJSON unmarshals the message body into v.
func DecodeJSON(msg Message, v any) error {
	if err := json.Unmarshal(msg.Body(), v); err != nil {
		return fmt.Errorf("messaging: decode %s: %w", msg.Topic(), err)
	}
	return nil
}
