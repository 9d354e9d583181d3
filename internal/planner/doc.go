// Package planner turns a user's subjects and task history into study plans,
// revision schedules, recommendations and analytics.
//
// Everything here is a pure function of its inputs. The current time is always
// passed in explicitly and nothing touches storage: callers load subjects and
// tasks, call into the planner, and persist whatever comes back.
package planner
