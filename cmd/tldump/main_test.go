package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/tlwire/internal/protocol/frame"
	"github.com/danmuck/tlwire/internal/protocol/mtproto"
	"github.com/danmuck/tlwire/internal/protocol/session"
	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/danmuck/tlwire/internal/testutil/testlog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, obj tl.Object) []byte {
	t.Helper()
	b, err := tl.Encode(obj)
	require.NoError(t, err)
	return b
}

func TestRunHexRepr(t *testing.T) {
	testlog.Start(t)

	in := hex.EncodeToString(encode(t, &mtproto.Ping{PingID: 77}))
	in += "\n" + hex.EncodeToString(encode(t, &mtproto.Pong{MsgID: 4, PingID: 77}))
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-hex"}, strings.NewReader(in), &out, &errOut))
	require.Equal(t, "ping(ping_id=77)\npong(msg_id=4, ping_id=77)\n", out.String())
}

func TestRunFramedJSON(t *testing.T) {
	testlog.Start(t)

	var stream bytes.Buffer
	require.NoError(t, frame.WriteTag(&stream))
	require.NoError(t, frame.WriteFrame(&stream, encode(t, &mtproto.RpcError{ErrorCode: 420, ErrorMessage: "FLOOD_WAIT_5"}), frame.DefaultLimits()))
	stream.Write([]byte{4, 0, 0, 0, 0x53, 0xfe, 0xff, 0xff})

	path := filepath.Join(t.TempDir(), "capture.bin")
	require.NoError(t, os.WriteFile(path, stream.Bytes(), 0o644))

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-framed", "-format", "json", path}, nil, &out, &errOut))
	got := out.String()
	require.Contains(t, got, `"_": "rpc_error"`)
	require.Contains(t, got, `"error_message": "FLOOD_WAIT_5"`)
	require.Contains(t, got, "transport error -429")
}

func TestRunPlainSpewWithSchema(t *testing.T) {
	testlog.Start(t)

	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "extra.tl")
	require.NoError(t, os.WriteFile(schemaPath, []byte("test.echo#a2f5d7e1 value:int = test.Echo;\n"), 0o644))

	body := []byte{0xe1, 0xd7, 0xf5, 0xa2, 9, 0, 0, 0}
	packed, err := session.PackPlain(0x6000000000000004, body)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	err = run([]string{"-plain", "-format", "spew", "-schema", schemaPath}, bytes.NewReader(packed), &out, &errOut)
	require.NoError(t, err)
	require.Contains(t, out.String(), "msg_id=0x6000000000000004")
	require.Contains(t, out.String(), "test.echo")

	out.Reset()
	err = run([]string{"-plain"}, bytes.NewReader(packed), &out, &errOut)
	require.ErrorIs(t, err, tl.ErrUnknownConstructor)
}

func TestRunMetrics(t *testing.T) {
	testlog.Start(t)

	var out, errOut bytes.Buffer
	in := bytes.NewReader(encode(t, &mtproto.Ping{PingID: 1}))
	require.NoError(t, run([]string{"-metrics"}, in, &out, &errOut))
	require.Contains(t, errOut.String(), "tlwire_codec_decode_total")
}

func TestRunRejectsBadFlags(t *testing.T) {
	testlog.Start(t)

	var out, errOut bytes.Buffer
	require.Error(t, run([]string{"-format", "yaml"}, nil, &out, &errOut))
	require.Error(t, run([]string{"-hex"}, strings.NewReader("zz"), &out, &errOut))
	require.Error(t, run([]string{"-log", "loud"}, nil, &out, &errOut))
}

func TestRunLogFlagOverridesConfig(t *testing.T) {
	testlog.Start(t)
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	path := filepath.Join(t.TempDir(), "tlwire.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"error\"\n"), 0o644))
	in := hex.EncodeToString(encode(t, &mtproto.Ping{PingID: 3}))

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-hex", "-log", "debug", "-config", path}, strings.NewReader(in), &out, &errOut))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, run([]string{"-hex", "-config", path}, strings.NewReader(in), &out, &errOut))
	require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}
