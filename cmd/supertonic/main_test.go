package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/supertonic-tts/internal/config"
	"github.com/ekisa-team/supertonic-tts/internal/envvar"
)

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	allowed := map[string]bool{"download": true, "say": true, "voices": true, "serve": true}
	for _, sub := range cmd.Commands() {
		assert.True(t, allowed[sub.Name()], "unexpected subcommand %s", sub.Name())
		delete(allowed, sub.Name())
	}
	assert.Empty(t, allowed, "missing subcommands")
}

func TestVoicesCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"voices"})

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "NAME")
	assert.Regexp(t, `alex\s+M1`, text)
	assert.Regexp(t, `emily\s+F5`, text)
	assert.Contains(t, text, "Languages: en, ko, es, pt, fr")
}

func TestLoadConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := loadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig(missing, true)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("plugin: {}\n"), 0o644))
	_, err = loadConfig(invalid, false)
	assert.Error(t, err)
}

func TestExplicitMissingConfigFails(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "voices"})
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestSystemLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "es_ES.UTF-8")

	assert.Equal(t, "es_ES.UTF-8", systemLanguage(&config.Config{}))
	assert.Equal(t, "ko", systemLanguage(&config.Config{SystemLang: "ko"}))

	t.Setenv("LANG", "C")
	assert.Empty(t, systemLanguage(&config.Config{}))
}

func TestModelRoot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envvar.SupertonicModelPath, dir)

	assert.Equal(t, dir, modelRoot(config.Default()))

	cfg := config.Default()
	cfg.Plugin["model_path"] = "/srv/supertonic"
	assert.Equal(t, "/srv/supertonic", modelRoot(cfg))
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = config.EngineConfig{OnnxRuntimeLib: "/usr/lib/libonnxruntime.so", Threads: 4, Seed: 9}

	opts := engineOptions(cfg)
	assert.Equal(t, "/usr/lib/libonnxruntime.so", opts.LibraryPath)
	assert.Equal(t, 4, opts.IntraOpThreads)
	assert.Equal(t, uint64(9), opts.Seed)
}

func TestParseLine(t *testing.T) {
	lang, name, text := parseLine("fr:emily|Bonjour tout le monde")
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "emily", name)
	assert.Equal(t, "Bonjour tout le monde", text)

	lang, name, text = parseLine("ko|안녕하세요")
	assert.Equal(t, "ko", lang)
	assert.Empty(t, name)
	assert.Equal(t, "안녕하세요", text)

	lang, name, text = parseLine("a b|c")
	assert.Empty(t, lang)
	assert.Empty(t, name)
	assert.Equal(t, "a b|c", text)

	_, _, text = parseLine("plain text")
	assert.Equal(t, "plain text", text)
}

func TestDownloadCommand_ReportsFailures(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Join([]string{
		`version: "1"`,
		`assets:`,
		`  base_url: "http://127.0.0.1:1"`,
		`  timeout_seconds: 1`,
		`logging:`,
		`  level: error`,
	}, "\n")+"\n"), 0o644))

	root := t.TempDir()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "download", "--model-path", root})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16 model files")
	assert.Contains(t, out.String(), "failed:     onnx/tts.json")
}
