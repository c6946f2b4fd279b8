package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexUint64(t *testing.T) {
	var body struct {
		UserID     FlexUint64 `json:"user_id"`
		CategoryID FlexUint64 `json:"category_id"`
		PriorityID FlexUint64 `json:"priority_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":"12","category_id":3,"priority_id":""}`), &body))
	assert.Equal(t, uint64(12), body.UserID.Uint64())
	assert.Equal(t, uint64(3), *body.CategoryID.Ptr())
	assert.Nil(t, body.PriorityID.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"user_id":"abc"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"user_id":true}`), &body))
}

func TestFlexList(t *testing.T) {
	type entry struct {
		Action string `json:"action_type"`
	}

	var one FlexList[entry]
	require.NoError(t, json.Unmarshal([]byte(`{"action_type":"login"}`), &one))
	assert.Equal(t, []entry{{Action: "login"}}, one.Slice())

	var many FlexList[entry]
	require.NoError(t, json.Unmarshal([]byte(`[{"action_type":"a"},{"action_type":"b"}]`), &many))
	assert.Len(t, many.Slice(), 2)
}

func TestCustomErrorMessage(t *testing.T) {
	err := &CustomError{Code: 403, Message: "Admin access required", Type: "authorization.admin"}
	assert.Equal(t, "403: Admin access required [type: authorization.admin]", err.Error())
}
