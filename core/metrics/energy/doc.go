// Package energy aggregates the daily energy charged into and discharged
// from each vessel battery.
package energy
