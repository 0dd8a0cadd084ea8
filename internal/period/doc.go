// Package period maps dates onto calendar buckets (ISO weeks, biweekly spans,
// months, trimesters, quadrimesters, semesters, and years) and orders those
// buckets.
//
// Each strategy computes a (year, index) pair exactly once; both the folder
// label and the ordering are derived from that pair so "which folder" and "is
// this an earlier period" can never disagree at a year boundary. Week and
// Biweekly use the ISO week-year, every other strategy the calendar year.
package period
