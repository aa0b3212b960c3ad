package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezlog-go/ezlog/block"
	"github.com/ezlog-go/ezlog/compress"
	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/cryptor"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/header"
	"github.com/ezlog-go/ezlog/pipeline"
)

func runDecode(cmd *cobra.Command, flags *cliFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	in, err := os.Open(flags.input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer closeOut()

	return decodeFile(in, out, cfg, flags.debug)
}

func loadConfig(flags *cliFlags) (config.Config, error) {
	var cfg config.Config
	var err error

	if flags.configPath != "" {
		data, readErr := os.ReadFile(flags.configPath)
		if readErr != nil {
			return config.Config{}, fmt.Errorf("reading config: %w", readErr)
		}
		cfg, err = config.FromJSON(data)
		if err != nil {
			return config.Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if flags.key != "" {
		key, kErr := hex.DecodeString(flags.key)
		if kErr != nil {
			return config.Config{}, fmt.Errorf("decoding --key: %w", kErr)
		}
		cfg.CipherKey = key
	}
	if flags.nonce != "" {
		nonce, nErr := hex.DecodeString(flags.nonce)
		if nErr != nil {
			return config.Config{}, fmt.Errorf("decoding --nonce: %w", nErr)
		}
		cfg.CipherNonce = nonce
	}

	return cfg, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}

	return f, func() { f.Close() }, nil
}

func decodeFile(in io.Reader, out io.Writer, cfg config.Config, debug bool) error {
	r := bufio.NewReader(in)

	hdrBuf := make([]byte, header.SizeV2)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	hdr, err := header.Decode(hdrBuf)
	if err != nil {
		return fmt.Errorf("decoding header: %w", err)
	}

	// V1's header is shorter than the SizeV2 bytes already consumed;
	// push the overread tail back in front of the stream before reading
	// blocks.
	if hdr.Length() < header.SizeV2 {
		r = bufio.NewReader(io.MultiReader(bytes.NewReader(hdrBuf[hdr.Length():]), r))
	}

	// The header carries the compress/cipher kinds authoritatively; trust
	// it over --config so a mismatched config file can't silently
	// mis-decode a file written with a different codec.
	codec, err := compress.CreateCodec(hdr.Compress, format.CompressLevelDefault)
	if err != nil {
		return fmt.Errorf("building codec: %w", err)
	}

	aead, err := cryptor.CreateCryptor(hdr.Cipher, cfg.CipherKey, cfg.CipherNonce)
	if err != nil {
		return fmt.Errorf("building cryptor: %w", err)
	}
	if hdr.Version == format.VersionV2 && hdr.Cipher != format.CipherNone &&
		header.CipherHash(cfg.CipherKey, cfg.CipherNonce) != hdr.CipherHash {
		return fmt.Errorf("building cryptor: key/nonce do not match the file's cipher hash")
	}

	pipe, err := pipeline.New(hdr.Version, codec, aead)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	position := uint32(hdr.Length())
	skipFirst := hdr.HasExtra()

	for {
		payload, err := block.DecodeFrom(r, hdr.Version)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading block: %w", err)
		}

		blockStart := position
		position += uint32(block.Len(len(payload)))

		if skipFirst {
			skipFirst = false
			if debug {
				fmt.Fprintf(os.Stderr, "skipped extra block at %d (%d bytes)\n", blockStart, len(payload))
			}
			continue
		}

		plaintext, err := pipe.Decode(payload, hdr.CreatedAt, blockStart)
		if err != nil {
			if debug {
				fmt.Fprintf(os.Stderr, "block at %d failed to decode: %v\n", blockStart, err)
			}
			continue
		}

		if _, err := out.Write(plaintext); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if _, err := out.Write([]byte("\n")); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	return nil
}
