// Package spatial estimates direction of arrival with a frequency-domain
// delay-and-sum (Bartlett) beamformer over a uniform linear microphone
// array.
//
// A Beamformer is built once from a validated Config and then maps a
// multichannel signal to a spatial spectrum: relative power per candidate
// angle, averaged over the frequency bins of a chosen band. Angles are in
// degrees from the array broadside.
package spatial
