// Package main provides streamguard-bench, a small CLI that feeds sample
// text through a GuardEngine and reports throughput. It is an example
// application, never imported by the engine packages themselves.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamguard-io/streamguard/pkg/config"
	"github.com/streamguard-io/streamguard/pkg/guard"
)

const (
	defaultChunkSize  = 32
	defaultIterations = 2000
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "streamguard-bench",
		Short: "Throughput benchmark for a streamguard GuardEngine",
		Long: `streamguard-bench builds a GuardEngine, either from the built-in PII
rule set or from a declarative YAML config file, and feeds it a synthetic
clean stream in fixed-size chunks to report a chunks/sec and bytes/sec
throughput figure.

Example:
  streamguard-bench --config rules.yaml --chunk-size 64 --iterations 5000`,
		RunE: runBench,
	}

	rootCmd.Flags().StringP("config", "c", "", "Path to a declarative YAML rule config (default: built-in PII rules)")
	rootCmd.Flags().IntP("chunk-size", "s", defaultChunkSize, "Bytes per fed chunk")
	rootCmd.Flags().IntP("iterations", "n", defaultIterations, "Number of chunks to feed")

	return rootCmd
}

func runBench(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	chunkSize, err := cmd.Flags().GetInt("chunk-size")
	if err != nil {
		return fmt.Errorf("failed to get chunk-size flag: %w", err)
	}
	iterations, err := cmd.Flags().GetInt("iterations")
	if err != nil {
		return fmt.Errorf("failed to get iterations flag: %w", err)
	}

	eng, err := buildEngine(configPath)
	if err != nil {
		return err
	}

	chunks := generateChunks(chunkSize, iterations)

	writer := bufio.NewWriter(cmd.OutOrStdout())
	defer writer.Flush()

	blocked := false
	start := time.Now()
	fed := 0
	totalBytes := 0
	for i, chunk := range chunks {
		decision := eng.Feed(chunk)
		fed++
		totalBytes += len(chunk)
		if decision.IsBlock() {
			blocked = true
			fmt.Fprintf(writer, "blocked at chunk %d: %s\n", i, decision.Reason)
			break
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(writer, "rules:        %d\n", eng.RuleCount())
	fmt.Fprintf(writer, "chunks fed:   %d\n", fed)
	fmt.Fprintf(writer, "bytes fed:    %d\n", totalBytes)
	fmt.Fprintf(writer, "elapsed:      %s\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(writer, "chunks/sec:   %.0f\n", float64(fed)/elapsed.Seconds())
		fmt.Fprintf(writer, "bytes/sec:    %.0f\n", float64(totalBytes)/elapsed.Seconds())
	}
	fmt.Fprintf(writer, "blocked:      %v\n", blocked)

	return nil
}

func buildEngine(configPath string) (*guard.GuardEngine, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	registry := guard.GlobalRegistry()
	return registry.BuildEngine([]string{
		"pii.email.redact",
		"pii.url.redact",
		"pii.ipv4.redact",
		"pii.credit_card.block",
	})
}

var benchWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"model", "generates", "streaming", "output", "one", "token", "at", "a", "time",
	"reservoir", "throughput", "latency", "guardrail", "chunk", "boundary",
}

// generateChunks produces a deterministic pseudo-random clean text stream,
// split into fixed-size chunks, so repeated runs are comparable.
func generateChunks(chunkSize, iterations int) []string {
	rng := rand.New(rand.NewSource(42))

	var sb strings.Builder
	for sb.Len() < chunkSize*iterations {
		sb.WriteString(benchWords[rng.Intn(len(benchWords))])
		sb.WriteByte(' ')
	}
	text := sb.String()
	if n := chunkSize * iterations; n >= 0 && n < len(text) {
		text = text[:n]
	}

	chunks := make([]string, 0, iterations)
	for i := 0; i < len(text); i += chunkSize {
		end := i + chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}
