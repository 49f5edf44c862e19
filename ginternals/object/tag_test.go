package object_test

import (
	"bytes"
	"testing"

	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsTag(t *testing.T) {
	t.Parallel()

	targetID, err := ginternals.NewOidFromHex("9785af758bcc96cd7237ba65eb2c9dd1ecaa3321")
	require.NoError(t, err)

	var b bytes.Buffer
	b.WriteString("object ")
	b.WriteString(targetID.String())
	b.WriteString("\n")
	b.WriteString("type commit\n")
	b.WriteString("tag v1.0\n")
	b.WriteString("tagger Ada Lovelace <ada@example.com> 1566115917 -0700\n")
	b.WriteString("\n")
	b.WriteString("release")

	o := object.New(object.TypeTag, b.Bytes())
	tag, err := o.AsTag()
	require.NoError(t, err)

	assert.Equal(t, o.ID(), tag.ID())
	assert.Equal(t, targetID, tag.Target())
	assert.Equal(t, object.TypeCommit, tag.Type())
	assert.Equal(t, "v1.0", tag.Name())
	assert.Equal(t, "Ada Lovelace", tag.Tagger().Name)
	assert.Equal(t, "release", tag.Message())
}

func TestAsTagRejectsMissingTagger(t *testing.T) {
	t.Parallel()

	targetID := object.New(object.TypeBlob, []byte("x")).ID()
	o := object.New(object.TypeTag, []byte("object "+targetID.String()+"\ntype blob\ntag v1\n\nmsg"))
	_, err := o.AsTag()
	assert.ErrorIs(t, err, object.ErrTagInvalid)
}
