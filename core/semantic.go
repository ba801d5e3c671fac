package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// Semantic drift thresholds on the embedding-distance score.
const (
	semanticSignificant = 0.4  // strong shift, urgent wording
	semanticModerate    = 0.2  // noticeable shift, softer wording
	semanticExplain     = 0.25 // above this a natural-language explanation is produced
	vocabularyThreshold = 0.3  // Jaccard distance over token vocabularies
)

// Caps applied before invoking the external capability.
const (
	maxEmbedSamples = 500 // texts embedded per side
	maxTermSamples  = 20  // new/removed vocabulary terms listed per finding
	summaryTextCap  = 3500
	summaryMaxLen   = 150
	summaryMinLen   = 60
	summaryInputs   = 20 // texts per side fed to the summarizer
)

// SemanticDetector measures embedding-distance and vocabulary drift over the
// free-text samples of two summaries. The embedding capability is injected so
// tests can substitute a deterministic stub and so callers control timeouts.
type SemanticDetector struct {
	embedder contract.Embedder
	timeout  time.Duration
	maxTexts int
}

// NewSemanticDetector builds a detector around the given capability.
// A nil embedder is allowed and produces a zero semantic signal.
func NewSemanticDetector(embedder contract.Embedder, timeout time.Duration, maxTexts int) *SemanticDetector {
	if timeout <= 0 {
		timeout = contract.DefaultEmbedTimeout
	}
	if maxTexts <= 0 || maxTexts > maxEmbedSamples {
		maxTexts = maxEmbedSamples
	}
	return &SemanticDetector{embedder: embedder, timeout: timeout, maxTexts: maxTexts}
}

// Detect returns semantic findings, an optional explanation, and the
// embedding-distance score in [0,1]. Datasets without text samples on both
// sides never trigger semantic drift. Capability failures degrade to a zero
// embedding signal; the vocabulary check needs no capability and still runs.
func (d *SemanticDetector) Detect(ctx context.Context, old, new *schema.Summary) ([]schema.DriftFinding, string, float64) {
	if old == nil || new == nil || len(old.TextSample) == 0 || len(new.TextSample) == 0 {
		return []schema.DriftFinding{}, "", 0.0
	}

	oldTexts := boundTexts(old.TextSample, d.maxTexts)
	newTexts := boundTexts(new.TextSample, d.maxTexts)

	findings := make([]schema.DriftFinding, 0, 2)
	embedScore := d.embeddingScore(ctx, oldTexts, newTexts)

	switch {
	case embedScore > semanticSignificant:
		findings = append(findings, schema.DriftFinding{
			Kind:      schema.SemanticShift,
			Magnitude: embedScore,
			Detail:    fmt.Sprintf("significant semantic shift in text content (embedding distance %.3f)", embedScore),
		})
	case embedScore > semanticModerate:
		findings = append(findings, schema.DriftFinding{
			Kind:      schema.SemanticShift,
			Magnitude: embedScore,
			Detail:    fmt.Sprintf("moderate semantic change in text content (embedding distance %.3f)", embedScore),
		})
	}

	vocabScore, newTerms, removedTerms := vocabularyShift(oldTexts, newTexts)
	if vocabScore > vocabularyThreshold {
		detail := fmt.Sprintf("vocabulary shifted (Jaccard distance %.3f): %d new terms, %d removed",
			vocabScore, len(newTerms), len(removedTerms))
		if len(newTerms) > 0 {
			detail += "; new: " + strings.Join(newTerms, ", ")
		}
		findings = append(findings, schema.DriftFinding{
			Kind:      schema.VocabularyShift,
			Magnitude: vocabScore,
			Detail:    detail,
		})
	}

	var explanation string
	if embedScore > semanticExplain {
		explanation = d.explain(ctx, oldTexts, newTexts, embedScore)
	}

	return findings, explanation, embedScore
}

// embeddingScore computes 1 - cosine(centroid(old), centroid(new)), clamped
// to [0,1]. Any capability failure yields a zero score.
func (d *SemanticDetector) embeddingScore(ctx context.Context, oldTexts, newTexts []string) float64 {
	if d.embedder == nil {
		return 0.0
	}
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	oldVecs, err := d.embedder.Embed(callCtx, oldTexts)
	if err != nil {
		contract.LogWarn("Embedding capability unavailable, semantic signal degraded to zero", err)
		return 0.0
	}
	newVecs, err := d.embedder.Embed(callCtx, newTexts)
	if err != nil {
		contract.LogWarn("Embedding capability unavailable, semantic signal degraded to zero", err)
		return 0.0
	}

	oldCentroid := centroid(oldVecs)
	newCentroid := centroid(newVecs)
	if len(oldCentroid) == 0 || len(newCentroid) == 0 || len(oldCentroid) != len(newCentroid) {
		return 0.0
	}
	return schema.Clamp01(1.0 - cosineSimilarity(oldCentroid, newCentroid))
}

// explain asks the summarization capability to contrast the two text sides.
// Generation failures fall back to a rule-based explanation; this method
// never returns an error to the caller.
func (d *SemanticDetector) explain(ctx context.Context, oldTexts, newTexts []string, embedScore float64) string {
	if d.embedder != nil {
		combined := "Previous data:\n" + strings.Join(head(oldTexts, summaryInputs), " ") +
			"\n\nNew data:\n" + strings.Join(head(newTexts, summaryInputs), " ")
		if len(combined) > summaryTextCap {
			combined = combined[:summaryTextCap]
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		summary, err := d.embedder.Summarize(callCtx, combined, summaryMaxLen, summaryMinLen)
		if err == nil && strings.TrimSpace(summary) != "" {
			return summary
		}
		if err != nil {
			contract.LogWarn("Summarization failed, using rule-based explanation", err)
		}
	}
	return ruleBasedExplanation(oldTexts, newTexts, embedScore)
}

// ruleBasedExplanation derives a short explanation from average token length
// change plus the embedding score when generation is unavailable.
func ruleBasedExplanation(oldTexts, newTexts []string, embedScore float64) string {
	oldLen := avgTokenLength(oldTexts)
	newLen := avgTokenLength(newTexts)

	trend := "comparable in length to"
	switch {
	case newLen > oldLen*1.2:
		trend = "noticeably longer than"
	case newLen < oldLen*0.8:
		trend = "noticeably shorter than"
	}
	return fmt.Sprintf(
		"Text content has drifted (embedding distance %.2f). New text entries are %s previous ones (avg token length %.1f vs %.1f).",
		embedScore, trend, newLen, oldLen)
}

// vocabularyShift tokenizes both sides into word sets and returns the Jaccard
// distance plus bounded samples of newly introduced and removed terms.
func vocabularyShift(oldTexts, newTexts []string) (float64, []string, []string) {
	oldVocab := tokenize(oldTexts)
	newVocab := tokenize(newTexts)
	distance := jaccardDistance(oldVocab, newVocab)
	return distance, setDiff(newVocab, oldVocab, maxTermSamples), setDiff(oldVocab, newVocab, maxTermSamples)
}

// tokenize applies a lower-cased whitespace split with no stemming.
func tokenize(texts []string) map[string]struct{} {
	vocab := make(map[string]struct{})
	for _, t := range texts {
		for _, w := range strings.Fields(strings.ToLower(t)) {
			vocab[w] = struct{}{}
		}
	}
	return vocab
}

func avgTokenLength(texts []string) float64 {
	var total, count float64
	for _, t := range texts {
		for _, w := range strings.Fields(t) {
			total += float64(len(w))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / count
}

// centroid averages a set of equal-length vectors. Vectors of mismatched
// length are skipped rather than erroring.
func centroid(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	if dim == 0 {
		return nil
	}
	out := make([]float64, dim)
	n := 0
	for _, v := range vecs {
		if len(v) != dim {
			continue
		}
		for i, x := range v {
			out[i] += x
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// cosineSimilarity returns the cosine of the angle between two equal-length
// vectors. A zero-magnitude vector yields zero similarity.
func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func boundTexts(texts []string, limit int) []string {
	return head(texts, limit)
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
