// Package toolstub installs a shell-script stand-in for the wpkg binary so
// tests can exercise the full orchestration pipeline without the real tool.
// The stub records every invocation and emulates the subcommands gowpkg
// drives: version comparison (sort -V), index creation (a JSON dump compiled
// from the repository tree), index listing, show, field and install queries.
package toolstub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const script = `#!/bin/sh
log="$(dirname "$0")/calls.log"
printf '%s\n' "$*" >> "$log"

if [ "$1" = "--tmpdir" ]; then shift 2; fi

repo=""
for_arg=""
for a in "$@"; do
    if [ "$for_arg" = "repo" ]; then repo=$a; for_arg=""; fi
    if [ "$a" = "--repository" ]; then for_arg=repo; fi
done

case "$1" in
--version)
    echo "wpkg 1.2.3"
    ;;
--compare-versions)
    v1=$2; v2=$4
    [ "$v1" = "$v2" ] && exit 1
    hi=$(printf '%s\n%s\n' "$v1" "$v2" | sort -V | tail -n 1)
    [ "$hi" = "$v1" ] && exit 0
    exit 1
    ;;
--create-index)
    index=$2
    out="{"
    sep=""
    for deb in "$repo"/*/*.deb; do
        [ -e "$deb" ] || continue
        dist=$(basename "$(dirname "$deb")")
        file=$(basename "$deb" .deb)
        name=${file%%_*}
        rest=${file#*_}
        version=${rest%%_*}
        arch=${rest#*_}
        if [ "$arch" = "$rest" ]; then arch=source; fi
        ctrl=$dist
        if [ -f "$deb.distribution" ]; then ctrl=$(cat "$deb.distribution"); fi
        out="$out$sep\"$dist/$file.ctrl\": {\"Architecture\": \"$arch\", \"Distribution\": \"$ctrl\"}"
        sep=", "
    done
    out="$out}"
    printf '%s\n' "$out" > "$index"
    ;;
--list-index-packages-json)
    if [ -f "$repo/index.tar.gz" ]; then
        cat "$repo/index.tar.gz"
    else
        echo "{}"
    fi
    ;;
--show)
    last=""
    for a in "$@"; do last=$a; done
    file=$(basename "$last" .deb)
    printf '{"Package": "%s", "Version": "1.0", "Architecture": "amd64"}\n' "${file%%_*}"
    ;;
--field)
    shift 2
    for f in "$@"; do
        echo "$f: value-of-$f"
    done
    ;;
--is-installed)
    case " $STUB_INSTALLED " in
    *" $2 "*) exit 0 ;;
    esac
    exit 1
    ;;
--print-env)
    eval "echo \"\$$2\""
    ;;
--fail)
    exit "$2"
    ;;
esac
exit 0
`

// Install writes the stub script into a fresh temp directory and returns its
// path plus the invocation log path.
func Install(t *testing.T) (bin, callsLog string) {
	t.Helper()
	dir := t.TempDir()
	bin = filepath.Join(dir, "wpkg")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, filepath.Join(dir, "calls.log")
}

// Calls returns the recorded invocations, one argument vector per line.
// Missing log means no invocations.
func Calls(t *testing.T, callsLog string) []string {
	t.Helper()
	data, err := os.ReadFile(callsLog)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}
