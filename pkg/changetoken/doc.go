// Package changetoken provides change tokens: cheap handles that report whether
// an upstream data set changed since the token was issued.
//
// A Signal is a one-shot token fired by its owner. Aggregate folds any number of
// Providers into a single Token (pass-through for one, logical OR for many,
// Never for none). Cell caches a derived value on first access.
package changetoken
