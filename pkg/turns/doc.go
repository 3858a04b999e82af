// Package turns allocates a weighted speaking-turn budget across personas.
//
// The total number of turns is a step function of the persona count and the
// intent (TotalTurns). Each intent assigns every persona a relevance weight
// between 0 and 5 (WeightTable). Allocate gives the lead persona a floor of
// two turns and every other relevant persona a floor of one, then spreads the
// remaining budget in proportion to weight using the largest-remainder
// method, so quotas always sum exactly to the total.
//
// Single-persona conversations are not slot-allocated: every quota is zero
// and the total is zero.
package turns
