package config

// Task file names searched for during discovery, in order of preference.
var DefaultFileNames = []string{
	"phony.yaml",
	"phony.yml",
	"phony.json",
	"phony.hcl",
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(f *File) {
	if f.Tasks == nil {
		f.Tasks = make(map[string]TaskConfig)
	}
	for name, t := range f.Tasks {
		if len(t.Env) == 0 {
			t.Env = nil
		}
		if len(t.DependsOn) == 0 {
			t.DependsOn = nil
		}
		f.Tasks[name] = t
	}
}
