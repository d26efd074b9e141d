// Package securedate implements the time-windowed symmetric proof of
// possession used to admit callers to the gateway.
//
// A caller proves it holds the shared secret by encrypting something tied to
// the current calendar date. The verifier accepts a proof produced for any
// date inside a small window around its own date, which absorbs time zone
// disagreement between client and server without widening the replay
// window beyond a few days.
//
// Two schemes exist and a verifier runs exactly one of them:
//
//   - SchemePhrase (default): the date is key material and the encrypted
//     payload is a fixed verification phrase. The wire form is
//     base64(iv) ":" base64(ciphertext). The verifier derives one key per
//     candidate date (today, yesterday, tomorrow, ...) and accepts the first
//     candidate whose decryption equals the phrase.
//
//   - SchemeDateDistance (legacy): the shared secret is an OpenSSL/CryptoJS
//     passphrase and the encrypted payload is the YYYYMMDD date. The verifier
//     decrypts once and accepts when the decrypted date is within SkewDays
//     whole calendar days of its own date.
//
// The two schemes disagree on tolerance across month and year boundaries
// only in how the window is expressed, not in its width; they are still
// kept separate so that a deployment states which one it runs.
//
// All verification failures wrap ErrInvalidCredential. Callers that talk to
// untrusted parties should collapse every such error into one response.
package securedate
