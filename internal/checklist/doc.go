// Package checklist verifies a learner's lab repository against the ordered
// requirements of the version-control training exercise.
//
// Verifier evaluates every requirement of every task group against the
// filesystem and an injected RepositoryQuerier, and folds the outcomes into a
// VerificationReport. CommandBuilder wires the verifier into the Cobra root
// command; RequirementsCommandBuilder lists the active catalog.
package checklist
