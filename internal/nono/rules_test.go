package nono

import "testing"

func TestIsRuleTooBroadRootSubpath(t *testing.T) {
	cases := []string{
		`(allow file-read* (subpath "/"))`,
		`(allow file-write* (subpath "/"))`,
		`(allow process-exec (subpath "/"))`,
		`(allow network* (subpath "/"))`,
		`(allow default)`,
		`(ALLOW FILE-READ* (SUBPATH "/"))`,
	}
	for _, c := range cases {
		if _, _, bad := isRuleTooBroad(c); !bad {
			t.Errorf("expected %q to be rejected as too broad", c)
		}
	}
}

func TestIsRuleTooBroadAcceptsScoped(t *testing.T) {
	cases := []string{
		`(allow file-read* (subpath "/tmp/scoped"))`,
		`(allow file-write* (literal "/etc/hosts"))`,
		`(allow network* (remote tcp "example.com:443"))`,
	}
	for _, c := range cases {
		if _, _, bad := isRuleTooBroad(c); bad {
			t.Errorf("expected %q to be accepted", c)
		}
	}
}
