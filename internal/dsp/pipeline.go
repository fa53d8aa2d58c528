// Package dsp turns an audioio.AudioWindow into a Fingerprint (C2):
// noise gate, pre-emphasis, windowed FFT, mel-band power-sum pooling, and
// a confidence score (spec §4.2). Grounded on the teacher's
// internal/fingerprint/fingerprint.go for the overall FFT-based spectral
// pipeline shape (window → FFT → per-band pooling), rebuilt around the
// spec's simpler "one log-energy value per frame" feature instead of the
// teacher's anchor-target peak hashing, which has no analogue in the
// measurement-endpoint domain.
//
// The features are not true MFCCs: each frame yields a single log of the
// power summed over the linear FFT bins between MinFreq and MaxFreq, with no
// mel filterbank and no DCT step.
package dsp

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/meterbox/beacon/internal/audioio"
	"github.com/meterbox/beacon/internal/config"
	"github.com/meterbox/beacon/internal/metrics"
)

// PublishThreshold is the confidence floor below which a fingerprint is
// considered noise and never transmitted (spec §4.4 transition table,
// §7 "transient input noise").
const PublishThreshold = 0.1

// preEmphasisAlpha is the classical single-coefficient pre-emphasis
// constant (spec §4.2 step 2).
const preEmphasisAlpha = 0.97

// Fingerprint is the output of one DSP pass (spec §3).
type Fingerprint struct {
	Payload    string // base64-encoded feature vector
	Hash       string // 32 lowercase hex chars
	Confidence float64
	Timestamp  int64 // unix nanos, from the source AudioWindow
}

// Process runs the full spec §4.2 pipeline over w using cfg, the snapshot
// that was active when w was acquired (per the config store's invariant —
// see internal/config/store.go).
func Process(w audioio.AudioWindow, cfg config.AudioConfig) Fingerprint {
	fp := Fingerprint{Timestamp: w.AcquiredAt.UnixNano()}

	energy := meanSquare(w.Samples)
	if energy < cfg.NoiseThreshold {
		metrics.Get().NoiseDiscardsTotal.Inc()
		return fp // confidence stays 0.0 — spec §4.2 step 1
	}

	samples := make([]float64, len(w.Samples))
	copy(samples, w.Samples)
	preEmphasize(samples)

	nFrames := (len(samples)-cfg.FFTSize)/cfg.HopLength + 1
	if nFrames > cfg.NMels {
		nFrames = cfg.NMels
	}
	if nFrames < 0 {
		nFrames = 0
	}

	window := hammingWindow(cfg.FFTSize)
	features := make([]float64, nFrames)

	for k := 0; k < nFrames; k++ {
		offset := k * cfg.HopLength
		frame := make([]complex128, cfg.FFTSize)
		for i := 0; i < cfg.FFTSize && offset+i < len(samples); i++ {
			frame[i] = complex(samples[offset+i]*window[i], 0)
		}

		fft(frame)

		sum := 0.0
		lo, hi := melBinRange(cfg)
		for i := lo; i < hi && i < cfg.FFTSize/2; i++ {
			re, im := real(frame[i]), imag(frame[i])
			sum += re*re + im*im
		}
		features[k] = math.Log(sum + 1e-10)
	}

	payload := encodePayload(features)
	fp.Payload = payload
	fp.Hash = hashPayload(payload)
	fp.Confidence = confidence(features)

	return fp
}

func meanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return sum / float64(len(samples))
}

// preEmphasize applies x[i] -= alpha*x[i-1] in place, iterated from the
// last index down to 1 (spec §4.2 step 2).
func preEmphasize(x []float64) {
	for i := len(x) - 1; i >= 1; i-- {
		x[i] -= preEmphasisAlpha * x[i-1]
	}
}

// melBinRange maps [min_freq, max_freq] to FFT bin indices via the linear
// mapping bin = freq * fft_size / sample_rate (spec §4.2 step 6).
func melBinRange(cfg config.AudioConfig) (lo, hi int) {
	lo = int(cfg.MinFreq * float64(cfg.FFTSize) / float64(cfg.SampleRate))
	hi = int(cfg.MaxFreq * float64(cfg.FFTSize) / float64(cfg.SampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// encodePayload interprets features as raw bytes (native endianness) and
// base64-encodes them with '=' padding (spec §4.2 step 7).
func encodePayload(features []float64) string {
	buf := make([]byte, 8*len(features))
	for i, f := range features {
		binary.NativeEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// hashPayload computes the 128-bit digest of the base64 text itself, not
// the raw feature bytes — preserved per DESIGN NOTE §9's instruction to
// keep the source's documented-but-odd behavior where ambiguous.
func hashPayload(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// confidence computes min(1, sqrt(E)*sqrt(var)*10) per spec §4.2 step 9,
// clamping NaN/Inf results to 0.0 per spec §4.2's failure clause.
func confidence(features []float64) float64 {
	if len(features) == 0 {
		return 0
	}

	mean := 0.0
	energy := 0.0
	for _, f := range features {
		mean += f
		energy += f * f
	}
	mean /= float64(len(features))

	variance := 0.0
	for _, f := range features {
		d := f - mean
		variance += d * d
	}
	variance /= float64(len(features))

	c := math.Min(1.0, math.Sqrt(energy)*math.Sqrt(variance)*10)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}
