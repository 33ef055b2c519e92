// Package ci resolves configuration values from CI-platform environment
// variables. Variable names differ per platform; the resolver hides that
// behind a single interface so the rest of the tool never branches on
// platform.
package ci

import (
	"strconv"
	"strings"
)

// GetenvFunc matches the signature of os.Getenv. Injectable for tests.
type GetenvFunc func(key string) string

// Platform identifies the CI system the process is running under.
type Platform string

const (
	PlatformGitHub  Platform = "github-actions"
	PlatformGitLab  Platform = "gitlab-ci"
	PlatformUnknown Platform = "unknown"
)

// Resolver extracts branch, repo, and merge-request identity from the
// process environment of a CI job.
type Resolver struct {
	getenv GetenvFunc
}

// New creates a Resolver with the given environment lookup function.
func New(getenv GetenvFunc) *Resolver {
	return &Resolver{getenv: getenv}
}

// Detect returns the CI platform the process appears to run under.
func (r *Resolver) Detect() Platform {
	if r.getenv("GITHUB_ACTIONS") == "true" {
		return PlatformGitHub
	}
	if r.getenv("GITLAB_CI") == "true" {
		return PlatformGitLab
	}
	return PlatformUnknown
}

// Branch returns the branch under test, or "" if it cannot be determined.
// For pull/merge request pipelines the source branch wins over the
// synthetic ref the platform checks out.
func (r *Resolver) Branch() string {
	switch r.Detect() {
	case PlatformGitHub:
		// GITHUB_HEAD_REF is only set for pull_request events.
		if head := r.getenv("GITHUB_HEAD_REF"); head != "" {
			return head
		}
		return r.getenv("GITHUB_REF_NAME")
	case PlatformGitLab:
		if src := r.getenv("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"); src != "" {
			return src
		}
		return r.getenv("CI_COMMIT_REF_NAME")
	}
	return ""
}

// RepoID returns the platform's numeric repository identifier, or 0 when
// absent or non-numeric. Absence is valid: a project id may substitute.
func (r *Resolver) RepoID() int {
	var raw string
	switch r.Detect() {
	case PlatformGitHub:
		raw = r.getenv("GITHUB_REPOSITORY_ID")
	case PlatformGitLab:
		raw = r.getenv("CI_PROJECT_ID")
	}

	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// MergeRequestID returns the pull/merge request number, or 0 when the
// pipeline is not attached to one.
func (r *Resolver) MergeRequestID() int {
	switch r.Detect() {
	case PlatformGitHub:
		// GITHUB_REF is "refs/pull/<n>/merge" for pull_request events.
		ref := r.getenv("GITHUB_REF")
		parts := strings.Split(ref, "/")
		if len(parts) >= 3 && parts[1] == "pull" {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				return n
			}
		}
	case PlatformGitLab:
		if n, err := strconv.Atoi(r.getenv("CI_MERGE_REQUEST_IID")); err == nil {
			return n
		}
	}
	return 0
}

// CommitSHA returns the commit under test, or "".
func (r *Resolver) CommitSHA() string {
	switch r.Detect() {
	case PlatformGitHub:
		return r.getenv("GITHUB_SHA")
	case PlatformGitLab:
		return r.getenv("CI_COMMIT_SHA")
	}
	return ""
}
