package netdef

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/dagnet/internal/ctxlog"
	"github.com/vk/dagnet/internal/fsutil"
)

// Load reads a net definition from path, which may be a single .hcl file or
// a directory searched recursively. Files in a directory are merged in
// lexical path order, preserving op declaration order within and across
// files. At most one file may carry a net block.
func Load(ctx context.Context, path string) (*Net, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("net definition path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("searching %s for net definitions: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl files found under %s", path)
		}
	}
	logger.Debug("Loading net definition.", "path", path, "files", len(files))

	net := &Net{Type: NetTypeDag}
	parser := hclparse.NewParser()
	netBlockFrom := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		if schema.Net != nil {
			if netBlockFrom != "" {
				return nil, fmt.Errorf("duplicate net block in %s (already defined in %s)", file, netBlockFrom)
			}
			netBlockFrom = file
			net.Name = schema.Net.Name
			net.NumWorkers = schema.Net.NumWorkers
			if schema.Net.Type != "" {
				net.Type = schema.Net.Type
			}
		}

		for _, ob := range schema.Ops {
			op := &Op{
				Type:          ob.Type,
				Name:          ob.Name,
				Inputs:        ob.Inputs,
				Outputs:       ob.Outputs,
				ControlInputs: ob.ControlInputs,
			}
			if ob.Args != nil {
				op.Args = ob.Args.Body
			}
			net.Ops = append(net.Ops, op)
		}
	}

	if net.Type != NetTypeDag && net.Type != NetTypeSimple {
		return nil, fmt.Errorf("unknown net type %q: must be %q or %q", net.Type, NetTypeDag, NetTypeSimple)
	}
	if net.NumWorkers < 0 {
		return nil, fmt.Errorf("num_workers must not be negative, got %d", net.NumWorkers)
	}

	logger.Debug("Net definition loaded.", "net", net.Name, "type", net.Type, "ops", len(net.Ops))
	return net, nil
}
