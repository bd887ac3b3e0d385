// Package sched contains the per-step power allocation policies. A policy is
// a pure function of the active charging requests and the site power budget;
// it keeps no history between steps, so the simulation stays deterministic
// and policies remain interchangeable behind the Policy interface.
package sched
