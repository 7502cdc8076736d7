package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifyEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","api_version":"2020-08-27","data":{"object":{"id":"cs_1","object":"checkout.session"}}}`)

	event, err := VerifyEvent(payload, SignPayload(payload, testSecret, time.Now()), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventCheckoutSessionCompleted, string(event.Type))
}

func TestVerifyEvent_BadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := VerifyEvent(payload, SignPayload(payload, "whsec_other", time.Now()), testSecret)
	assert.Error(t, err)

	_, err = VerifyEvent(payload, "", testSecret)
	assert.Error(t, err)
}

func TestVerifyEvent_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := VerifyEvent(payload, SignPayload(payload, testSecret, time.Now().Add(-time.Hour)), testSecret)
	assert.Error(t, err)
}
