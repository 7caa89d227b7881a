// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RepositoryManager, which answers the read-only questions the
// checklist verifier asks about a lab repository (identity, branches, log,
// tracked files, merge ancestry, status, tags and remote references) by
// running git through an execshell executor.
package gitrepo
