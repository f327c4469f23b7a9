package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

func TestDocument_Pretty(t *testing.T) {
	assert.Equal(t, "", model.Document(nil).Pretty())
	assert.Equal(t, "{\n  \"a\": 1\n}", model.Document(`{"a":1}`).Pretty())
	assert.Equal(t, "<html>", model.Document("<html>").Pretty())
}

func TestDocument_MarshalNests(t *testing.T) {
	out, err := json.Marshal(struct {
		Body model.Document `json:"body"`
		None model.Document `json:"none"`
	}{Body: model.Document(`{"x":[1]}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":{"x":[1]},"none":null}`, string(out))
}

func TestProjectOptions(t *testing.T) {
	doc := model.Document(`{"projects":[{"id":"prj_1","name":"web"},{"id":"prj_2"},{"name":"orphan"}]}`)

	assert.Equal(t, []model.ProjectOption{
		{ID: "prj_1", Name: "web"},
		{ID: "prj_2", Name: "prj_2"},
	}, model.ProjectOptions(doc))

	assert.Empty(t, model.ProjectOptions(model.Document(`{}`)))
	assert.Nil(t, model.ProjectOptions(model.Document(`not json`)))
}
