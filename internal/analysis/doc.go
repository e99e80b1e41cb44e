// Package analysis summarises the sampled series of a headless run.
//
//   - [Series]: extract one quantity from run samples
//   - [Summarize]: mean, standard deviation and range of a series
//   - [PowerSpectrum]: magnitude spectrum of a series
//   - [DominantFrequency]: strongest non-DC frequency at a given sample rate
//
// Periodic input such as the emitter sweep shows up as a peak in the
// spectrum of the sampled kinetic energy:
//
//	ke := analysis.Series(samples, analysis.KineticEnergy)
//	f, _ := analysis.DominantFrequency(ke, 1/dt)
package analysis
