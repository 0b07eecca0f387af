package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibrahim/dsstorekit/internal/blockcursor"
)

func utf16be(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

func TestReadLongEntry(t *testing.T) {
	name := utf16be("foo.txt")
	var data []byte
	data = append(data, 0, 0, 0, byte(len(name)/2))
	data = append(data, name...)
	data = append(data, []byte("logS")...)
	data = append(data, []byte("long")...)
	data = append(data, 0, 0, 0x01, 0x00)

	e, err := Read(blockcursor.New(data), false)
	require.NoError(t, err)
	assert.Equal(t, "foo.txt", e.Filename)
	assert.Equal(t, "logS", e.Code)
	assert.Equal(t, "long", e.Type)
	assert.Equal(t, uint32(256), e.Value)
}

func TestReadIlocRecordMatchesScenario3(t *testing.T) {
	name := utf16be("foo.txt")
	var data []byte
	data = append(data, 0, 0, 0, byte(len(name)/2))
	data = append(data, name...)
	data = append(data, []byte("Iloc")...)
	data = append(data, []byte("blob")...)
	data = append(data, 0, 0, 0, 16) // payload length
	data = append(data, []byte{
		0x00, 0x00, 0x00, 0x0A,
		0x00, 0x00, 0x00, 0x14,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0x00, 0x00,
	}...)

	e, err := Read(blockcursor.New(data), false)
	require.NoError(t, err)
	assert.Equal(t, "Iloc", e.Code)
	assert.Equal(t, "IlocCodec", e.Type)
	assert.Equal(t, "Location: (10, 20), Selected Index: Null, Unknown: 00000000", e.Value)
}

func TestReadBoolEntryMainVsSlackWidth(t *testing.T) {
	name := utf16be("x")
	var data []byte
	data = append(data, 0, 0, 0, 1)
	data = append(data, name...)
	data = append(data, []byte("fdsc")...)
	data = append(data, []byte("bool")...)
	data = append(data, 1)

	e, err := Read(blockcursor.New(data), false)
	require.NoError(t, err)
	assert.Equal(t, true, e.Value)

	var slackData []byte
	slackData = append(slackData, 0, 0, 0, 1)
	slackData = append(slackData, name...)
	slackData = append(slackData, []byte("fdsc")...)
	slackData = append(slackData, []byte("bool")...)
	slackData = append(slackData, 0, 0, 0, 1)

	se, err := Read(blockcursor.New(slackData), true)
	require.NoError(t, err)
	assert.Equal(t, true, se.Value)
}

func TestReadUnknownTypeFails(t *testing.T) {
	name := utf16be("x")
	var data []byte
	data = append(data, 0, 0, 0, 1)
	data = append(data, name...)
	data = append(data, []byte("xxxx")...)
	data = append(data, []byte("zzzz")...)

	_, err := Read(blockcursor.New(data), false)
	assert.Error(t, err)
}

func TestReadUstrEntry(t *testing.T) {
	val := utf16be("hello")
	name := utf16be("y")
	var data []byte
	data = append(data, 0, 0, 0, 1)
	data = append(data, name...)
	data = append(data, []byte("ptbN")...)
	data = append(data, []byte("ustr")...)
	data = append(data, 0, 0, 0, byte(len(val)/2))
	data = append(data, val...)

	e, err := Read(blockcursor.New(data), false)
	require.NoError(t, err)
	assert.Equal(t, "hello", e.Value)
}
