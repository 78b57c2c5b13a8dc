// Package planfile persists build plans as deterministic JSON.
//
// A plan file records the outcome of a resolution so that later tooling can
// build from it without re-resolving, or detect that it went stale. Writing
// the same plan twice produces identical bytes, which makes the file safe to
// check in and cheap to compare.
//
// # Usage
//
// Write a plan:
//
//	plan, err := resolver.Resolve("Game")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := planfile.New(plan).WriteFile("Game.plan.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Check whether a stored plan is still current:
//
//	f, err := planfile.ReadFile("Game.plan.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if f.Fingerprint != planfile.Fingerprint(plan) {
//	    fmt.Println("plan is stale")
//	}
//
// # Compatibility
//
// Files carry a planFileVersion. Parse rejects any version other than
// CurrentVersion.
package planfile
