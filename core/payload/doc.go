// Package payload holds the two object shapes the recovery pipeline is
// normally asked to rescue: customer journey maps and recommendation
// playbooks. It provides their JSON schemas for prompt construction and
// decoders from recovered values. Decoding coerces types only; it does not
// check that stages or moments make sense.
package payload
