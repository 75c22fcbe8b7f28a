// Package netscan locates an Android wireless-debugging endpoint on the
// local network.
//
// The package layers cheap signals before expensive ones:
//
//  1. mDNS: devices with wireless debugging enabled may advertise
//     "_adb-tls-connect._tcp"; each advertisement is a ready-made ip:port
//     candidate.
//  2. Neighbor table: a ping sweep forces idle hosts into the OS ARP
//     cache, which is then read for IP-to-MAC mappings. MAC prefixes are
//     classified by vendor so handset makers are scanned first.
//  3. Port scan: per host, the common wireless-debug ports are tried with
//     a full bridge connect; likely-Android hosts then get a two-phase
//     deep scan of the 30000-50000 ephemeral range (parallel TCP filter,
//     serial bridge verification).
//
// Every step degrades rather than fails: a missing OS command, an
// unanswered probe, or an empty mDNS browse all produce empty results and
// the caller moves on. No operation blocks past its own timeout.
//
// Vendor classification is strictly a priority heuristic. A device with an
// unrecognized MAC prefix is still scanned, just later and without the
// deep-scan phase.
package netscan
