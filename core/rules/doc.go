// Package rules defines the versioned rule set for batch runs.
//
// Correlation weights, fuzzy-match thresholds, staleness windows, and
// utilization bounds are configuration, not fixed law. A batch job loads the
// rule set once, and every run summary records the Fingerprint of the rules
// it executed under, so a result can always be reproduced.
package rules
